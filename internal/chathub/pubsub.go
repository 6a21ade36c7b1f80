package chathub

import (
	"encoding/json"
	"log"

	"telecare/backend/internal/models"
)

// StartPubSubListener запускає goroutine, яка слухає Redis Pub/Sub і передає
// події від інших інстансів релею в головний цикл. Це шар горизонтального
// масштабування: членство кімнат лишається локальним для процесу, а розсилки
// тиражуються між процесами через Redis.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var evt models.RelayEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("ERROR: failed to unmarshal pubsub event: %v", err)
				continue
			}
			m.PubSubCh <- evt
		}
	}()
}
