package notifications

import (
	"context"

	"go.uber.org/zap"
)

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	LeaveApproved(ctx context.Context, to string, data DecisionContext) error
	LeaveRejected(ctx context.Context, to string, data DecisionContext, rejectionReason string) error
}

type notifier struct {
	mailer Mailer
	from   string
	logger *zap.Logger
}

func NewNotifier(mailer Mailer, from string, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notifications.notifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifications.notifier")
	}
	return &notifier{mailer: mailer, from: from, logger: l}
}

func (n *notifier) LeaveApproved(ctx context.Context, to string, data DecisionContext) error {
	subject, body := buildApprovalMessage(data)
	if err := n.mailer.Send(ctx, n.from, to, subject, body); err != nil {
		n.logger.Warn("send approval mail failed",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (n *notifier) LeaveRejected(ctx context.Context, to string, data DecisionContext, rejectionReason string) error {
	subject, body := buildRejectionMessage(data, rejectionReason)
	if err := n.mailer.Send(ctx, n.from, to, subject, body); err != nil {
		n.logger.Warn("send rejection mail failed",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}
	return nil
}
