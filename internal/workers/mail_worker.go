package workers

import (
	"context"
	"strings"
	"sync"

	"ambassador_backend/internal/email"
	"ambassador_backend/internal/logger"
	"ambassador_backend/pkg/apperrors"
)

// Типы писем, для логов
const (
	MailKindVerification = "verification"
	MailKindAdminNotice  = "admin_notice"
)

type mailJob struct {
	kind string
	msg  *email.Email
}

// MailWorker отправляет письма в фоне, чтобы SMTP не задерживал HTTP-ответ.
// Ошибки отправки только логируются: заявка к этому моменту уже сохранена.
type MailWorker struct {
	provider email.Provider
	queue    chan mailJob
	wg       sync.WaitGroup
}

func NewMailWorker(provider email.Provider, size int) *MailWorker {
	if size <= 0 {
		size = 100
	}
	return &MailWorker{
		provider: provider,
		queue:    make(chan mailJob, size),
	}
}

// Start запускает обработчик очереди до отмены контекста
func (w *MailWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Wait ждет завершения обработчика после отмены контекста
func (w *MailWorker) Wait() {
	w.wg.Wait()
}

// Enqueue ставит письмо в очередь и никогда не блокирует.
// false - очередь переполнена, письмо отброшено.
func (w *MailWorker) Enqueue(kind string, msg *email.Email) bool {
	select {
	case w.queue <- mailJob{kind: kind, msg: msg}:
		return true
	default:
		logger.Warn("mail queue is full, message dropped",
			"kind", kind,
			"to", strings.Join(msg.To, ","),
		)
		return false
	}
}

func (w *MailWorker) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			logger.Info("Mail worker stopped")
			return
		case job := <-w.queue:
			w.send(job)
		}
	}
}

// drain отправляет то, что уже успели поставить в очередь
func (w *MailWorker) drain() {
	for {
		select {
		case job := <-w.queue:
			w.send(job)
		default:
			return
		}
	}
}

func (w *MailWorker) send(job mailJob) {
	to := strings.Join(job.msg.To, ",")
	if err := w.provider.Send(job.msg); err != nil {
		logger.MailLog(job.kind, to, apperrors.ErrMailDispatch(err))
		return
	}
	logger.MailLog(job.kind, to, nil)
}
