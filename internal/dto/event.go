package dto

// KafkaMessage is the envelope for ledger events published to the broker.
type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}
