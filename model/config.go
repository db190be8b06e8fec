package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/viant/chatflow/classifier"
	"gopkg.in/yaml.v3"
)

// NodeConfig is the typed configuration of a node. Init applies defaults
// and validates the configuration once at load time.
type NodeConfig interface {
	Init() error
}

// NewNodeConfig returns an empty configuration for the node type.
func NewNodeConfig(nodeType NodeType) (NodeConfig, error) {
	switch nodeType {
	case NodeTypeProcessor:
		return &ProcessorConfig{}, nil
	case NodeTypeAIClassifier:
		return &ClassifierConfig{}, nil
	case NodeTypeDataProcessor:
		return &DataProcessorConfig{}, nil
	case NodeTypeDatabaseQuery:
		return &DatabaseQueryConfig{}, nil
	case NodeTypePaymentProcessor:
		return &PaymentConfig{}, nil
	case NodeTypeCalendarProcessor:
		return &CalendarConfig{}, nil
	case NodeTypeStaticResponder:
		return &StaticResponderConfig{}, nil
	case NodeTypeFormProcessor:
		return &FormConfig{}, nil
	case NodeTypeAIResponder:
		return &AIResponderConfig{}, nil
	case NodeTypeFormatter:
		return &FormatterConfig{}, nil
	case NodeTypeAPISender:
		return &APISenderConfig{}, nil
	case NodeTypeLogger:
		return &LoggerConfig{}, nil
	}
	return nil, fmt.Errorf("unknown node type %q", nodeType)
}

// Input field names accepted by the processor validation.
const (
	FieldPhoneNumber = "phone_number"
	FieldMessageText = "message_text"
	FieldTimestamp   = "timestamp"
	FieldMessageType = "message_type"
	FieldMessageID   = "message_id"
	FieldContactName = "contact_name"
)

var inputFields = []string{FieldPhoneNumber, FieldMessageText, FieldTimestamp, FieldMessageType, FieldMessageID, FieldContactName}

// ProcessorConfig configures the input validation gate.
type ProcessorConfig struct {
	Validation Validation `json:"validation" yaml:"validation"`
}

// Validation lists required input fields and the sender id format.
type Validation struct {
	Required    []string `json:"required,omitempty" yaml:"required"`
	PhoneFormat string   `json:"phoneFormat,omitempty" yaml:"phone_format"`

	phoneFormat *regexp.Regexp
}

// PhonePattern returns the compiled sender format, or nil when not configured.
func (v *Validation) PhonePattern() *regexp.Regexp {
	return v.phoneFormat
}

func (c *ProcessorConfig) Init() error {
	for _, field := range c.Validation.Required {
		known := false
		for _, candidate := range inputFields {
			if candidate == field {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown required field %q", field)
		}
	}
	if expr := c.Validation.PhoneFormat; expr != "" {
		// anchored at the start only, a trailing "$" is up to the pattern
		re, err := regexp.Compile("^(?:" + expr + ")")
		if err != nil {
			return fmt.Errorf("invalid phone_format: %w", err)
		}
		c.Validation.phoneFormat = re
	}
	return nil
}

// ClassifierConfig configures intent detection.
type ClassifierConfig struct {
	Intents             Intents  `json:"intents" yaml:"intents"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold,omitempty" yaml:"confidence_threshold"`
	DefaultIntent       string   `json:"defaultIntent,omitempty" yaml:"default_intent"`

	classifier *classifier.Config
}

// Classifier returns the compiled classifier configuration.
func (c *ClassifierConfig) Classifier() *classifier.Config {
	return c.classifier
}

func (c *ClassifierConfig) Init() error {
	if len(c.Intents) == 0 {
		return fmt.Errorf("intents are required")
	}
	threshold := classifier.DefaultThreshold
	if c.ConfidenceThreshold != nil {
		threshold = *c.ConfidenceThreshold
	}
	if threshold < 0 {
		return fmt.Errorf("confidence_threshold must be >= 0")
	}
	if c.DefaultIntent == "" {
		c.DefaultIntent = classifier.DefaultIntent
	}
	config := &classifier.Config{Threshold: threshold, DefaultIntent: c.DefaultIntent}
	for _, intent := range c.Intents {
		compiled, err := classifier.NewIntent(intent.Name, intent.Keywords, intent.Patterns)
		if err != nil {
			return err
		}
		config.Intents = append(config.Intents, compiled)
	}
	c.classifier = config
	return nil
}

// IntentDefinition holds the signals of one intent.
type IntentDefinition struct {
	Name     string   `json:"name" yaml:"-"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
	Patterns []string `json:"patterns,omitempty" yaml:"patterns"`
}

// Intents keeps intent definitions in declaration order.
type Intents []*IntentDefinition

// UnmarshalYAML decodes an intent mapping preserving key order.
func (i *Intents) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: intents should be a mapping", node.Line)
	}
	for j := 0; j+1 < len(node.Content); j += 2 {
		intent := &IntentDefinition{}
		if err := node.Content[j+1].Decode(intent); err != nil {
			return fmt.Errorf("intent %s: %w", node.Content[j].Value, err)
		}
		intent.Name = node.Content[j].Value
		*i = append(*i, intent)
	}
	return nil
}

// DataProcessorConfig renders a template from static data.
type DataProcessorConfig struct {
	ResponseTemplate string            `json:"responseTemplate" yaml:"response_template"`
	Data             map[string]string `json:"data,omitempty" yaml:"data"`
}

// DefaultPrayerTimes is the data rendered when a data processor declares none.
var DefaultPrayerTimes = map[string]string{
	"fajr":    "04:30",
	"dhuhr":   "12:15",
	"asr":     "15:30",
	"maghrib": "18:45",
	"isha":    "20:00",
}

func (c *DataProcessorConfig) Init() error {
	if strings.TrimSpace(c.ResponseTemplate) == "" {
		return fmt.Errorf("response_template is required")
	}
	if len(c.Data) == 0 {
		c.Data = make(map[string]string, len(DefaultPrayerTimes))
		for k, v := range DefaultPrayerTimes {
			c.Data[k] = v
		}
	}
	return nil
}

// DatabaseQueryConfig renders the active schedule from the lookup store.
type DatabaseQueryConfig struct {
	Title         string `json:"title,omitempty" yaml:"title"`
	Footer        string `json:"footer,omitempty" yaml:"footer"`
	EmptyResponse string `json:"emptyResponse,omitempty" yaml:"empty_response"`
}

func (c *DatabaseQueryConfig) Init() error {
	if c.Title == "" {
		c.Title = "📚 *Jadwal Kajian Masjid*"
	}
	if c.Footer == "" {
		c.Footer = "Barakallahu fiikum! 🤲"
	}
	if c.EmptyResponse == "" {
		c.EmptyResponse = "Belum ada jadwal kajian yang tersedia saat ini. Silakan hubungi takmir masjid untuk informasi lebih lanjut."
	}
	return nil
}

// BankAccount is a donation transfer target.
type BankAccount struct {
	Bank          string `json:"bank" yaml:"bank"`
	AccountNumber string `json:"accountNumber" yaml:"account_number"`
	AccountName   string `json:"accountName" yaml:"account_name"`
}

// PaymentConfig lists donation channels.
type PaymentConfig struct {
	BankAccounts []*BankAccount `json:"bankAccounts" yaml:"bank_accounts"`
	QRISCode     string         `json:"qrisCode,omitempty" yaml:"qris_code"`
	AdminPhone   string         `json:"adminPhone,omitempty" yaml:"admin_phone"`
}

func (c *PaymentConfig) Init() error {
	if len(c.BankAccounts) == 0 {
		return fmt.Errorf("bank_accounts are required")
	}
	if c.QRISCode == "" {
		c.QRISCode = "QRIS_PLACEHOLDER"
	}
	return nil
}

// Event is an agenda entry.
type Event struct {
	Name     string `json:"name" yaml:"nama_acara"`
	Date     string `json:"date" yaml:"tanggal"`
	Time     string `json:"time" yaml:"waktu"`
	Place    string `json:"place" yaml:"tempat"`
	Audience string `json:"audience" yaml:"peserta"`
	Fee      string `json:"fee" yaml:"biaya"`
}

// DefaultEvents is the agenda rendered when a calendar processor declares none.
var DefaultEvents = []*Event{
	{Name: "Kajian Mingguan", Date: "2024-01-15", Time: "19:30 WIB", Place: "Aula Masjid", Audience: "Umum", Fee: "Gratis"},
	{Name: "Bakti Sosial", Date: "2024-01-20", Time: "08:00 WIB", Place: "Lapangan Masjid", Audience: "Jamaah", Fee: "Gratis"},
}

// CalendarConfig lists agenda events.
type CalendarConfig struct {
	Events []*Event `json:"events,omitempty" yaml:"events"`
}

func (c *CalendarConfig) Init() error {
	if len(c.Events) == 0 {
		c.Events = DefaultEvents
	}
	return nil
}

// OrganizationInfo describes the organisation answering the messages.
type OrganizationInfo struct {
	Name             string   `json:"name" yaml:"nama"`
	Address          string   `json:"address" yaml:"alamat"`
	Phone            string   `json:"phone" yaml:"telefon"`
	Email            string   `json:"email" yaml:"email"`
	OpeningHours     string   `json:"openingHours" yaml:"jam_buka"`
	Facilities       []string `json:"facilities" yaml:"fasilitas"`
	Caretaker        string   `json:"caretaker" yaml:"takmir"`
	CaretakerContact string   `json:"caretakerContact" yaml:"kontak_takmir"`
}

// StaticResponderConfig renders the organisation info block.
type StaticResponderConfig struct {
	Info *OrganizationInfo `json:"info" yaml:"masjid_info"`
}

func (c *StaticResponderConfig) Init() error {
	if c.Info == nil || c.Info.Name == "" {
		return fmt.Errorf("masjid_info.nama is required")
	}
	return nil
}

// FormConfig describes a registration procedure.
type FormConfig struct {
	Title             string   `json:"title,omitempty" yaml:"title"`
	RequiredDocuments []string `json:"requiredDocuments" yaml:"required_documents"`
	ProcessSteps      []string `json:"processSteps" yaml:"process_steps"`
	ContactPerson     string   `json:"contactPerson" yaml:"contact_person"`
}

func (c *FormConfig) Init() error {
	if len(c.RequiredDocuments) == 0 {
		return fmt.Errorf("required_documents are required")
	}
	if len(c.ProcessSteps) == 0 {
		return fmt.Errorf("process_steps are required")
	}
	if c.Title == "" {
		c.Title = "💒 *Pendaftaran Nikah - Masjid Al-Ikhlas*"
	}
	return nil
}

// DefaultFallbackResponse is used when an ai responder declares no fallback.
const DefaultFallbackResponse = "Maaf, saya belum bisa memahami pertanyaan Anda. Silakan coba lagi atau hubungi admin."

// AIResponderConfig lists fallback replies.
type AIResponderConfig struct {
	FallbackResponses []string `json:"fallbackResponses,omitempty" yaml:"fallback_responses"`
}

func (c *AIResponderConfig) Init() error { return nil }

const (
	// DefaultMaxLength bounds the formatted reply.
	DefaultMaxLength = 4000
	// Ellipsis replaces the tail of a truncated reply.
	Ellipsis = "..."
)

// FormatterConfig post-processes the reply.
type FormatterConfig struct {
	AddSignature  bool   `json:"addSignature,omitempty" yaml:"add_signature"`
	SignatureText string `json:"signatureText,omitempty" yaml:"signature_text"`
	MaxLength     int    `json:"maxLength,omitempty" yaml:"max_length"`
}

func (c *FormatterConfig) Init() error {
	if c.MaxLength == 0 {
		c.MaxLength = DefaultMaxLength
	}
	if c.MaxLength < len(Ellipsis) {
		return fmt.Errorf("max_length must be >= %d", len(Ellipsis))
	}
	return nil
}

// APISenderConfig describes the outbound delivery endpoint.
type APISenderConfig struct {
	APIEndpoint string            `json:"apiEndpoint,omitempty" yaml:"api_endpoint"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers"`
	Timeout     string            `json:"timeout,omitempty" yaml:"timeout"`

	timeout time.Duration
}

// TimeoutDuration returns the parsed request timeout.
func (c *APISenderConfig) TimeoutDuration() time.Duration {
	return c.timeout
}

func (c *APISenderConfig) Init() error {
	c.timeout = 30 * time.Second
	if c.Timeout != "" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.timeout = timeout
	}
	return nil
}

// DefaultLogFile is the audit file used when a logger declares none.
const DefaultLogFile = "logs/masjid_workflow.log"

// LoggerConfig configures the audit record destination.
type LoggerConfig struct {
	LogFile string `json:"logFile,omitempty" yaml:"log_file"`
}

func (c *LoggerConfig) Init() error {
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	return nil
}
