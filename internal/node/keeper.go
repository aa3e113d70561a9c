package node

import (
	"context"
	"strconv"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CycleIfDue triggers e_cycle for the current epoch once its window has
// elapsed. It reports whether an epoch was finalized.
func (n *Node) CycleIfDue(ctx context.Context) (bool, error) {
	epoch, due, err := n.CycleDue()
	if err != nil || !due {
		return false, err
	}
	_, err = n.Call(ctx, Call{
		Target:  TargetArena,
		Method:  "e_cycle",
		Payload: strconv.FormatUint(epoch.ID, 10),
		Sender:  n.cfg.Addresses.Keeper,
	})
	if err != nil {
		return false, err
	}
	n.log.Info("epoch cycled", zap.Uint64("epoch", epoch.ID))
	return true, nil
}

// StartKeeper schedules CycleIfDue on the configured cron expression. Stop
// the returned cron to end it.
func (n *Node) StartKeeper(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithLogger(cronLogger{n.log.Sugar().Named("keeper")}))
	_, err := c.AddFunc(n.cfg.CycleSchedule, func() {
		if _, err := n.CycleIfDue(ctx); err != nil {
			n.log.Warn("keeper cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
