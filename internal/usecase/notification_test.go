package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/chaos"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/ws"
)

type recordingPusher struct {
	msgs []ws.Message
}

func (p *recordingPusher) Send(_ string, msg ws.Message) int {
	p.msgs = append(p.msgs, msg)
	return 1
}

func TestNotificationUsecase(t *testing.T) {
	pusher := &recordingPusher{}
	uc := NewNotificationUsecase(repository.NewMemoryNotifications(fixedClock), pusher, zap.NewNop(), testOptions()...)
	ctx := context.Background()

	unread, err := uc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, uc.Notify(ctx, "u1", domain.NotificationPayment, "Paiement effectué", "EDG : 151 000 GNF"))
	require.Len(t, pusher.msgs, 1)
	assert.Equal(t, "notification", pusher.msgs[0].Event)

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "Paiement effectué", list[0].Title)

	require.NoError(t, uc.MarkRead(ctx, "u1", list[0].ID))
	unread, _ = uc.UnreadCount(ctx, "u1")
	assert.Equal(t, 2, unread)

	n, err := uc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, uc.Delete(ctx, "u1", list[0].ID))
	assert.ErrorIs(t, uc.Delete(ctx, "u1", list[0].ID), domain.ErrNotificationNotFound)
}

func TestNotificationUsecase_ReaderFault(t *testing.T) {
	uc := NewNotificationUsecase(repository.NewMemoryNotifications(fixedClock), nil, zap.NewNop(),
		testOptions(WithReaderFaults(chaos.Always(nil)))...)

	_, err := uc.List(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
