package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
)

// LifecycleSuite drives payments through the dispatcher the way the server
// does, with the Order service mocked out.
type LifecycleSuite struct {
	suite.Suite
	f          *fixture
	notifier   *notifierMock
	dispatcher *TaskDispatcher
}

func (s *LifecycleSuite) SetupTest() {
	s.f = newFixture(s.T(), nil)
	s.notifier = new(notifierMock)

	s.dispatcher = NewTaskDispatcher(s.f.tasks, zap.NewNop(), DispatcherConfig{Workers: 2, MaxAttempts: 3})
	s.dispatcher.Register(dbm.TaskProcessPayment, s.f.paymentSvc.HandleProcessPaymentTask)
	s.dispatcher.Register(dbm.TaskProcessRefund, s.f.refundSvc.HandleProcessRefundTask)
	s.dispatcher.Register(dbm.TaskNotifyOrder, NotifyOrderTaskHandler(s.notifier))
}

// drain runs batches until nothing is due.
func (s *LifecycleSuite) drain() {
	for i := 0; i < 10; i++ {
		n, err := s.dispatcher.RunOnce(context.Background())
		s.Require().NoError(err)
		if n == 0 {
			return
		}
	}
	s.FailNow("dispatcher did not settle")
}

func (s *LifecycleSuite) TestChargeConfirmsOrder() {
	s.notifier.On("NotifyPaymentOutcome", mock.Anything, int64(42), "completed").Return(nil).Once()

	p := s.f.createPayment(s.T(), "250")
	s.drain()

	stored := s.f.reload(s.T(), p.PaymentID)
	s.Equal(dbm.PaymentStatusCompleted, stored.Status)
	s.NotNil(stored.GatewayTransactionID)
	s.notifier.AssertExpectations(s.T())
}

func (s *LifecycleSuite) TestDeclineCancelsOrder() {
	s.notifier.On("NotifyPaymentOutcome", mock.Anything, int64(42), "failed").Return(nil).Once()

	p := s.f.createPayment(s.T(), "15000")
	s.drain()

	s.Equal(dbm.PaymentStatusFailed, s.f.reload(s.T(), p.PaymentID).Status)
	s.notifier.AssertExpectations(s.T())
}

func (s *LifecycleSuite) TestNotifyFailureDoesNotTouchPayment() {
	s.notifier.On("NotifyPaymentOutcome", mock.Anything, int64(42), "completed").Return(context.DeadlineExceeded)

	p := s.f.createPayment(s.T(), "20")
	s.drain()

	s.Equal(dbm.PaymentStatusCompleted, s.f.reload(s.T(), p.PaymentID).Status)
	notify := s.f.tasksOfKind(s.T(), p.PaymentID, dbm.TaskNotifyOrder)
	s.Require().Len(notify, 1)
	s.Equal(dbm.TaskStatusPending, notify[0].Status)
	s.Equal(1, notify[0].Attempts)
	s.True(notify[0].RunAt.After(time.Now().UTC()))
}

func (s *LifecycleSuite) TestRefundAfterCharge() {
	s.notifier.On("NotifyPaymentOutcome", mock.Anything, int64(42), "completed").Return(nil).Once()

	p := s.f.createPayment(s.T(), "60")
	s.drain()

	refund, err := s.f.refundSvc.CreateRefund(context.Background(), request_models.CreateRefundRequest{
		PaymentID: p.PaymentID,
		Reason:    "changed mind",
	})
	s.Require().NoError(err)
	s.drain()

	stored, err := s.f.refundSvc.GetRefund(context.Background(), refund.RefundID)
	s.Require().NoError(err)
	s.Equal(dbm.PaymentStatusCompleted, stored.Status)
	s.Equal(dbm.PaymentStatusRefunded, s.f.reload(s.T(), p.PaymentID).Status)
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}
