package webhook

import (
	"fmt"

	"github.com/viant/chatflow/runtime/execution"
)

// Payload is a WhatsApp Business webhook notification.
type Payload struct {
	Object string   `json:"object,omitempty"`
	Entry  []*Entry `json:"entry"`
}

type Entry struct {
	ID      string    `json:"id,omitempty"`
	Changes []*Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value *Value `json:"value"`
}

type Value struct {
	Messages []*Message `json:"messages"`
	Contacts []*Contact `json:"contacts"`
}

type Contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type Message struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Button      *Button      `json:"button,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Button struct {
	Text string `json:"text"`
}

type Interactive struct {
	Type        string `json:"type"`
	ButtonReply *Reply `json:"button_reply,omitempty"`
	ListReply   *Reply `json:"list_reply,omitempty"`
}

type Reply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Inputs walks entry, changes with field "messages", then messages. The
// first contact, if any, supplies the display name.
func (p *Payload) Inputs() []*execution.Input {
	var ret []*execution.Input
	for _, entry := range p.Entry {
		if entry == nil {
			continue
		}
		for _, change := range entry.Changes {
			if change == nil || change.Field != "messages" || change.Value == nil {
				continue
			}
			var contact *Contact
			if len(change.Value.Contacts) > 0 {
				contact = change.Value.Contacts[0]
			}
			for _, message := range change.Value.Messages {
				if message != nil {
					ret = append(ret, message.Input(contact))
				}
			}
		}
	}
	return ret
}

// Input converts a message into engine input.
func (m *Message) Input(contact *Contact) *execution.Input {
	ret := &execution.Input{
		SenderID:  m.From,
		Text:      m.Body(),
		Timestamp: m.Timestamp,
		Kind:      m.Type,
		MessageID: m.ID,
	}
	if contact != nil {
		ret.DisplayName = contact.Profile.Name
		ret.ContactID = contact.WaID
	}
	return ret
}

// Body extracts the user text of text, button and interactive messages;
// other types yield "[<type> message]".
func (m *Message) Body() string {
	switch m.Type {
	case "text":
		if m.Text != nil {
			return m.Text.Body
		}
		return ""
	case "button":
		if m.Button != nil {
			return m.Button.Text
		}
		return ""
	case "interactive":
		if m.Interactive != nil {
			switch m.Interactive.Type {
			case "button_reply":
				if m.Interactive.ButtonReply != nil {
					return m.Interactive.ButtonReply.Title
				}
				return ""
			case "list_reply":
				if m.Interactive.ListReply != nil {
					return m.Interactive.ListReply.Title
				}
				return ""
			}
		}
	}
	return fmt.Sprintf("[%s message]", m.Type)
}
