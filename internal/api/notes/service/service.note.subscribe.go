// Live subscription cho danh sách note của từng user.
// Mỗi lần dữ liệu notes thay đổi, subscriber nhận lại TOÀN BỘ danh sách mới
// (đã sort + normalize), không phải diff. Trigger đến từ hai nguồn:
//   - events bus in-process: mọi CRUD đi qua tầng base đều emit.
//   - MongoDB change stream (tùy chọn): bắt thay đổi từ process khác.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/events"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/models"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NoteListFetcher lấy danh sách note hiện tại của một user.
// Hub không tự query Mongo mà nhận fetcher từ bên ngoài để test được bằng fake.
type NoteListFetcher func(ctx context.Context, userID string) ([]models.Note, error)

const fetchTimeout = 10 * time.Second

// NoteSubscription là handle của một đăng ký lắng nghe.
// Cancel an toàn khi gọi nhiều lần và từ goroutine bất kỳ.
type NoteSubscription struct {
	id       uint64
	userID   string
	onChange func([]models.Note)

	// trigger buffer 1: nhiều thay đổi dồn dập chỉ cần một lần refresh
	trigger chan struct{}
	stop    chan struct{}

	// mu được giữ trong suốt mỗi lần gọi onChange. Cancel cũng phải lấy mu,
	// nên Cancel chỉ return khi callback đang chạy (nếu có) đã xong -
	// sau khi Cancel return tuyệt đối không còn onChange nào được gọi nữa.
	mu       sync.Mutex
	canceled bool
	once     sync.Once

	hub *NoteSubscriptionHub
}

// Cancel hủy đăng ký. Đồng bộ: sau khi return, onChange không còn được gọi.
func (sub *NoteSubscription) Cancel() {
	sub.once.Do(func() {
		sub.mu.Lock()
		sub.canceled = true
		sub.mu.Unlock()
		close(sub.stop)
		sub.hub.remove(sub.id)
	})
}

func (sub *NoteSubscription) deliver(notes []models.Note) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.canceled {
		return
	}
	sub.onChange(notes)
}

func (sub *NoteSubscription) refresh(fetch NoteListFetcher) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	notes, err := fetch(ctx, sub.userID)
	if err != nil {
		// Lỗi đọc trong lúc live không phá subscription, chỉ log lại.
		logger.GetErrorLogger().WithFields(map[string]interface{}{
			"user_id": sub.userID,
			"error":   err.Error(),
		}).Warn("Không refresh được danh sách note cho subscriber")
		return
	}
	sub.deliver(notes)
}

// run là goroutine riêng của mỗi subscription: snapshot đầu tiên ngay khi
// đăng ký, sau đó refresh mỗi khi có trigger cho tới khi bị Cancel.
func (sub *NoteSubscription) run(fetch NoteListFetcher) {
	sub.refresh(fetch)
	for {
		select {
		case <-sub.stop:
			return
		case <-sub.trigger:
			sub.refresh(fetch)
		}
	}
}

// NoteSubscriptionHub quản lý toàn bộ subscription đang mở trên collection notes.
type NoteSubscriptionHub struct {
	mu     sync.RWMutex
	subs   map[uint64]*NoteSubscription
	nextID uint64

	fetch          NoteListFetcher
	collectionName string
}

// NewNoteSubscriptionHub tạo hub và nối nó vào events bus in-process.
func NewNoteSubscriptionHub(collectionName string, fetch NoteListFetcher) *NoteSubscriptionHub {
	hub := &NoteSubscriptionHub{
		subs:           make(map[uint64]*NoteSubscription),
		fetch:          fetch,
		collectionName: collectionName,
	}
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		if e.CollectionName != hub.collectionName {
			return
		}
		if userID := events.GetStringField(e.Document, "UserID"); userID != "" {
			hub.NotifyUser(userID)
			return
		}
		// Không xác định được chủ sở hữu từ event thì đánh thức tất cả.
		hub.NotifyAll()
	})
	return hub
}

// Subscribe đăng ký lắng nghe danh sách note của userID.
// onChange được gọi tuần tự trên goroutine riêng của subscription,
// lần đầu với snapshot hiện tại, các lần sau mỗi khi dữ liệu đổi.
func (h *NoteSubscriptionHub) Subscribe(userID string, onChange func([]models.Note)) *NoteSubscription {
	h.mu.Lock()
	h.nextID++
	sub := &NoteSubscription{
		id:       h.nextID,
		userID:   userID,
		onChange: onChange,
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		hub:      h,
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	go sub.run(h.fetch)
	return sub
}

func (h *NoteSubscriptionHub) remove(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Count trả về số subscription đang mở.
func (h *NoteSubscriptionHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// NotifyUser đánh thức các subscription của một user. Non-blocking:
// trigger đã đầy nghĩa là một lần refresh đang chờ sẵn, khỏi cần thêm.
func (h *NoteSubscriptionHub) NotifyUser(userID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.trigger <- struct{}{}:
		default:
		}
	}
}

// NotifyAll đánh thức toàn bộ subscription đang mở.
func (h *NoteSubscriptionHub) NotifyAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		select {
		case sub.trigger <- struct{}{}:
		default:
		}
	}
}

// WatchExternalChanges mở change stream trên collection notes để nhận thay đổi
// từ process khác ghi thẳng vào MongoDB. Cần replica set; mở thất bại thì trả
// lỗi cho caller quyết định, hub vẫn chạy bình thường với events in-process.
// Stream đứt giữa chừng cũng vậy: log warning rồi degrade, không hủy subscription.
func (h *NoteSubscriptionHub) WatchExternalChanges(ctx context.Context, collection *mongo.Collection) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": []string{"insert", "update", "replace", "delete"}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := collection.Watch(ctx, pipeline, opts)
	if err != nil {
		return common.ConvertMongoError(err)
	}

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var changeDoc struct {
				OperationType string `bson:"operationType"`
				FullDocument  struct {
					UserID string `bson:"userId"`
				} `bson:"fullDocument"`
			}
			if err := stream.Decode(&changeDoc); err != nil {
				continue
			}
			// Delete không có fullDocument nên không biết chủ sở hữu.
			if changeDoc.FullDocument.UserID != "" {
				h.NotifyUser(changeDoc.FullDocument.UserID)
			} else {
				h.NotifyAll()
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.GetErrorLogger().WithField("error", err.Error()).
				Warn("Change stream notes bị ngắt, subscription tiếp tục với events in-process")
		}
	}()
	return nil
}

var (
	noteHub     *NoteSubscriptionHub
	noteHubOnce sync.Once
)

// SubscribeToUserNotes đăng ký lắng nghe danh sách note của user qua hub chung.
func (s *NoteService) SubscribeToUserNotes(userID string, onChange func([]models.Note)) *NoteSubscription {
	return s.hubInstance().Subscribe(userID, onChange)
}

// WatchExternalChanges bật change stream cho hub chung của service.
func (s *NoteService) WatchExternalChanges(ctx context.Context) error {
	return s.hubInstance().WatchExternalChanges(ctx, s.Collection())
}

func (s *NoteService) hubInstance() *NoteSubscriptionHub {
	noteHubOnce.Do(func() {
		noteHub = NewNoteSubscriptionHub(s.Collection().Name(), s.GetUserNotes)
	})
	return noteHub
}
