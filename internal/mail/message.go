package mail

import (
	"net/textproto"
)

// Headers carrying the identifiers the listener keys statuses by.
const (
	HeaderMailID   = "X-MailID"
	HeaderBatchID  = "X-BatchID"
	HeaderMailType = "X-MailType"
	HeaderWiki     = "X-Wiki"
)

// Message is an outgoing mail.
type Message struct {
	Header  textproto.MIMEHeader `json:"header"`
	From    string               `json:"from"`
	To      []string             `json:"to"`
	Subject string               `json:"subject"`
	Text    string               `json:"text,omitempty"`
	HTML    string               `json:"html,omitempty"`
}

// NewMessage creates a message with an empty header.
func NewMessage(from string, to []string, subject, text string) *Message {
	return &Message{
		Header:  make(textproto.MIMEHeader),
		From:    from,
		To:      to,
		Subject: subject,
		Text:    text,
	}
}

// ID returns the X-MailID header, or "" when unset.
func (m *Message) ID() string {
	return m.header().Get(HeaderMailID)
}

// BatchID returns the X-BatchID header, or "" when unset.
func (m *Message) BatchID() string {
	return m.header().Get(HeaderBatchID)
}

// SetIDs sets the message and batch identifiers.
func (m *Message) SetIDs(messageID, batchID string) {
	if m.Header == nil {
		m.Header = make(textproto.MIMEHeader)
	}
	m.Header.Set(HeaderMailID, messageID)
	m.Header.Set(HeaderBatchID, batchID)
}

func (m *Message) header() textproto.MIMEHeader {
	if m.Header == nil {
		return textproto.MIMEHeader{}
	}
	return m.Header
}
