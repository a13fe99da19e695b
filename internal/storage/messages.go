package storage

import "gitlab.ozon.dev/pupkingeorgij/freightmarket/internal/repository"

type outgoingNotification struct {
	userID  int64
	message string
}

func newRequestMessage(sender string) string {
	return "Вам поступил новый запрос от " + sender
}

// transitionNotifications builds the messages sent after b reached its status. Cancellation is silent.
func transitionNotifications(b *repository.BookingRequest) []outgoingNotification {
	switch b.Status {
	case repository.StatusAccepted:
		return []outgoingNotification{
			{userID: b.SenderID, message: "Ваш запрос был принят " + b.ReceiverUsername},
			{userID: b.ReceiverID, message: "Вы приняли запрос от " + b.SenderUsername},
		}
	case repository.StatusRejected:
		return []outgoingNotification{
			{userID: b.SenderID, message: "Ваш запрос был отклонён " + b.ReceiverUsername},
		}
	case repository.StatusFinished:
		return []outgoingNotification{
			{userID: b.SenderID, message: "Ваш заказ завершён " + b.ReceiverUsername},
			{userID: b.ReceiverID, message: "Вы завершили заказ с " + b.SenderUsername},
		}
	}
	return nil
}
