package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mesaYaMenu/internal/modules/realtime/application/port"
	"mesaYaMenu/internal/modules/realtime/domain"
)

// scheduleFunc runs fn after d and returns a function that cancels the pending run.
type scheduleFunc func(d time.Duration, fn func()) (stop func() bool)

func afterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

type pendingToast struct {
	toast domain.Toast
	stop  func() bool
}

// ToasterUseCase shows one toast per page session at a time and dismisses it
// once its display duration elapses. A newer toast replaces the pending one.
type ToasterUseCase struct {
	broadcaster port.Broadcaster
	now         func() time.Time
	schedule    scheduleFunc
	seq         atomic.Uint64

	mu      sync.Mutex
	current map[string]*pendingToast
}

func NewToasterUseCase(b port.Broadcaster) *ToasterUseCase {
	return &ToasterUseCase{
		broadcaster: b,
		now:         time.Now,
		schedule:    afterFunc,
		current:     make(map[string]*pendingToast),
	}
}

func (uc *ToasterUseCase) ShowToast(ctx context.Context, sessionID string, toast domain.Toast) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return
	}
	if toast.DisplayFor <= 0 {
		toast.DisplayFor = domain.ToastShort
	}
	toast.ID = uc.seq.Add(1)
	toast.ShownAt = uc.now().UTC()
	toast.DisplayMS = toast.DisplayFor.Milliseconds()

	entry := &pendingToast{toast: toast}
	uc.mu.Lock()
	if previous, ok := uc.current[sessionID]; ok && previous.stop != nil {
		previous.stop()
	}
	uc.current[sessionID] = entry
	id := toast.ID
	entry.stop = uc.schedule(toast.DisplayFor, func() { uc.dismiss(sessionID, id) })
	uc.mu.Unlock()

	slog.Debug("toast shown", slog.String("sessionId", sessionID), slog.String("kind", string(toast.Kind)), slog.String("text", toast.Text))
	uc.broadcaster.Broadcast(ctx, domain.SessionMessage(sessionID, domain.ToastEntity, domain.ActionShown, toast, toast.ShownAt))
}

func (uc *ToasterUseCase) CurrentToast(sessionID string) *domain.Toast {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	entry, ok := uc.current[strings.TrimSpace(sessionID)]
	if !ok {
		return nil
	}
	toast := entry.toast
	return &toast
}

func (uc *ToasterUseCase) OpenLink(ctx context.Context, sessionID, link string) {
	data := map[string]string{"url": link, "target": "_blank"}
	uc.broadcaster.Broadcast(ctx, domain.SessionMessage(sessionID, domain.BrowserEntity, domain.ActionOpen, data, uc.now()))
}

func (uc *ToasterUseCase) dismiss(sessionID string, id uint64) {
	uc.mu.Lock()
	entry, ok := uc.current[sessionID]
	if !ok || entry.toast.ID != id {
		uc.mu.Unlock()
		return
	}
	delete(uc.current, sessionID)
	uc.mu.Unlock()

	data := map[string]uint64{"id": id}
	uc.broadcaster.Broadcast(context.Background(), domain.SessionMessage(sessionID, domain.ToastEntity, domain.ActionDismissed, data, uc.now()))
}

var _ port.PageNotifier = (*ToasterUseCase)(nil)
