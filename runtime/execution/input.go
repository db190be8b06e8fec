package execution

// Input is the normalized inbound message handed over by a transport.
type Input struct {
	SenderID    string `json:"phone_number" yaml:"phone_number"`
	Text        string `json:"message_text" yaml:"message_text"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	Kind        string `json:"message_type" yaml:"message_type"`
	MessageID   string `json:"message_id" yaml:"message_id"`
	DisplayName string `json:"contact_name" yaml:"contact_name"`
	ContactID   string `json:"contact_wa_id,omitempty" yaml:"contact_wa_id,omitempty"`
}
