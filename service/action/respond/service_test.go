package respond

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/dao/schedule"
	"github.com/viant/chatflow/service/dao/schedule/memory"
)

type failingStore struct {
	schedule.Store
}

func (f *failingStore) Active(context.Context) ([]*schedule.Schedule, error) {
	return nil, errors.New("connection refused")
}

func handlerOf(t *testing.T, nodeType model.NodeType, opts ...Option) types.Handler {
	for _, handler := range Handlers(opts...) {
		if handler.Type() == nodeType {
			return handler
		}
	}
	t.Fatalf("no handler for %s", nodeType)
	return nil
}

func run(t *testing.T, nodeType model.NodeType, config model.NodeConfig, opts ...Option) (*execution.Context, *execution.Outcome) {
	require.NoError(t, config.Init())
	node := model.NewNode("responder", nodeType, config, model.SequentialOf("response_formatter"))
	execCtx := execution.NewContext("id", time.Now(), &execution.Input{SenderID: "+62812345678"})
	outcome := handlerOf(t, nodeType, opts...).Handle(context.Background(), node, execCtx)
	return execCtx, outcome
}

func TestHandlers_Types(t *testing.T) {
	var actual []model.NodeType
	for _, handler := range Handlers() {
		actual = append(actual, handler.Type())
	}
	assert.ElementsMatch(t, []model.NodeType{
		model.NodeTypeDataProcessor, model.NodeTypeDatabaseQuery, model.NodeTypePaymentProcessor,
		model.NodeTypeCalendarProcessor, model.NodeTypeStaticResponder, model.NodeTypeFormProcessor,
		model.NodeTypeAIResponder,
	}, actual)
}

func TestDataProcessor(t *testing.T) {
	execCtx, outcome := run(t, model.NodeTypeDataProcessor, &model.DataProcessorConfig{ResponseTemplate: "Subuh {fajr}, Maghrib {maghrib}"})
	require.False(t, outcome.Failed())
	assert.Equal(t, "response_formatter", outcome.NextID())
	assert.Equal(t, "Subuh 04:30, Maghrib 18:45", execCtx.FormattedResponse)
	assert.Equal(t, "04:30", execCtx.ResponseData.(map[string]string)["fajr"])

	_, outcome = run(t, model.NodeTypeDataProcessor, &model.DataProcessorConfig{ResponseTemplate: "{dhuha}"})
	assert.True(t, outcome.Failed())
}

func TestDatabaseQuery(t *testing.T) {
	store, err := memory.New(context.Background(), schedule.Samples()...)
	require.NoError(t, err)
	empty, err := memory.New(context.Background())
	require.NoError(t, err)

	testCases := []struct {
		description string
		options     []Option
		expectErr   string
		expect      string
	}{
		{
			description: "active schedule",
			options:     []Option{WithScheduleStore(store)},
			expect: "📚 *Jadwal Kajian Masjid*\n\n" +
				"📅 2024-01-15\n🕐 19:30\n👨‍🏫 Ustadz Ahmad Dahlan\n📖 Tema: Akhlak dalam Islam\n📍 Aula Masjid\n\n" +
				"📅 2024-01-22\n🕐 20:00\n👨‍🏫 Ustadz Muhammad Ridwan\n📖 Tema: Fiqh Muamalah\n📍 Aula Masjid\n\n" +
				"📅 2024-01-29\n🕐 19:30\n👨‍🏫 Ustadz Abdullah Syukur\n📖 Tema: Tafsir Al-Quran\n📍 Aula Masjid\n\n" +
				"Barakallahu fiikum! 🤲",
		},
		{
			description: "empty schedule",
			options:     []Option{WithScheduleStore(empty)},
			expect:      "Belum ada jadwal kajian yang tersedia saat ini. Silakan hubungi takmir masjid untuk informasi lebih lanjut.",
		},
		{
			description: "store failure",
			options:     []Option{WithScheduleStore(&failingStore{})},
			expectErr:   "database error: connection refused",
		},
		{
			description: "no store",
			expectErr:   "database error: no schedule store",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			execCtx, outcome := run(t, model.NodeTypeDatabaseQuery, &model.DatabaseQueryConfig{}, tc.options...)
			if tc.expectErr != "" {
				var handlerErr *execution.HandlerError
				require.True(t, errors.As(outcome.Err, &handlerErr))
				assert.Equal(t, tc.expectErr, outcome.Err.Error())
				return
			}
			require.False(t, outcome.Failed())
			assert.Equal(t, tc.expect, execCtx.FormattedResponse)
		})
	}
}

func TestPaymentProcessor(t *testing.T) {
	accounts := []*model.BankAccount{{Bank: "BSI", AccountNumber: "7123456789", AccountName: "Masjid Al-Ikhlas"}}
	testCases := []struct {
		description string
		config      *model.PaymentConfig
		env         func(string) string
		expectTail  string
	}{
		{
			description: "configured admin phone",
			config:      &model.PaymentConfig{BankAccounts: accounts, AdminPhone: "+62-811"},
			expectTail:  "Konfirmasi donasi ke: +62-811",
		},
		{
			description: "environment admin phone",
			config:      &model.PaymentConfig{BankAccounts: accounts},
			env:         func(key string) string { return map[string]string{"ADMIN_PHONE": "+62-822"}[key] },
			expectTail:  "Konfirmasi donasi ke: +62-822",
		},
		{
			description: "default admin phone",
			config:      &model.PaymentConfig{BankAccounts: accounts},
			env:         func(string) string { return "" },
			expectTail:  "Konfirmasi donasi ke: " + DefaultAdminPhone,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			execCtx, outcome := run(t, model.NodeTypePaymentProcessor, tc.config, WithEnv(tc.env))
			require.False(t, outcome.Failed())
			assert.Contains(t, execCtx.FormattedResponse, "🏧 BSI: 7123456789\na.n Masjid Al-Ikhlas\n\n")
			assert.Contains(t, execCtx.FormattedResponse, "📱 *QRIS:*\nQRIS_PLACEHOLDER\n\n")
			assert.True(t, len(execCtx.FormattedResponse) > len(tc.expectTail))
			assert.Equal(t, tc.expectTail, execCtx.FormattedResponse[len(execCtx.FormattedResponse)-len(tc.expectTail):])
		})
	}
}

func TestCalendarProcessor(t *testing.T) {
	execCtx, outcome := run(t, model.NodeTypeCalendarProcessor, &model.CalendarConfig{})
	require.False(t, outcome.Failed())
	assert.Equal(t, "📅 *Agenda Kegiatan Masjid*\n\n"+
		"📋 Kajian Mingguan\n📅 2024-01-15\n🕐 19:30 WIB\n📍 Aula Masjid\n👥 Umum\n💵 Gratis\n\n"+
		"📋 Bakti Sosial\n📅 2024-01-20\n🕐 08:00 WIB\n📍 Lapangan Masjid\n👥 Jamaah\n💵 Gratis\n\n"+
		"Daftarkan diri Anda! 📝", execCtx.FormattedResponse)
	assert.Len(t, execCtx.ResponseData, 2)
}

func TestStaticResponder(t *testing.T) {
	execCtx, outcome := run(t, model.NodeTypeStaticResponder, &model.StaticResponderConfig{Info: &model.OrganizationInfo{
		Name: "Al-Ikhlas", Address: "Jl. Merdeka 10", Phone: "021-1234567", Email: "info@masjid.id", OpeningHours: "04:00 - 22:00",
		Facilities: []string{"Perpustakaan", "Parkir"}, Caretaker: "H. Abdul", CaretakerContact: "+62-812",
	}})
	require.False(t, outcome.Failed())
	assert.Equal(t, "🕌 *Masjid Al-Ikhlas*\n\n"+
		"📍 Alamat: Jl. Merdeka 10\n☎️ Telepon: 021-1234567\n📧 Email: info@masjid.id\n🕐 Jam Buka: 04:00 - 22:00\n\n"+
		"🏢 *Fasilitas:*\n✅ Perpustakaan\n✅ Parkir\n"+
		"\n👨‍💼 Takmir: H. Abdul\n📱 Kontak: +62-812\n\n"+
		"Selamat datang di masjid kami! 🤲", execCtx.FormattedResponse)
}

func TestFormProcessor(t *testing.T) {
	execCtx, outcome := run(t, model.NodeTypeFormProcessor, &model.FormConfig{
		RequiredDocuments: []string{"KTP", "KK"},
		ProcessSteps:      []string{"Konsultasi", "Akad"},
		ContactPerson:     "Ustadz Hasan",
	})
	require.False(t, outcome.Failed())
	assert.Equal(t, "💒 *Pendaftaran Nikah - Masjid Al-Ikhlas*\n\n"+
		"📋 *Dokumen yang diperlukan:*\n📄 KTP\n📄 KK\n"+
		"\n📝 *Tahapan Proses:*\n1. Konsultasi\n2. Akad\n"+
		"\n👨‍🏫 Narahubung: Ustadz Hasan\n\n"+
		"Semoga Allah mudahkan urusan Anda! 🤲", execCtx.FormattedResponse)
}

func TestAIResponder(t *testing.T) {
	execCtx, outcome := run(t, model.NodeTypeAIResponder, &model.AIResponderConfig{FallbackResponses: []string{"first", "second"}})
	require.False(t, outcome.Failed())
	assert.Equal(t, "first", execCtx.FormattedResponse)

	execCtx, _ = run(t, model.NodeTypeAIResponder, &model.AIResponderConfig{})
	assert.Equal(t, model.DefaultFallbackResponse, execCtx.FormattedResponse)
}

func TestWrongConfig(t *testing.T) {
	node := model.NewNode("x", model.NodeTypeFormProcessor, &model.LoggerConfig{}, model.Successors{})
	outcome := handlerOf(t, model.NodeTypeFormProcessor).Handle(context.Background(), node, execution.NewContext("id", time.Now(), nil))
	var handlerErr *execution.HandlerError
	assert.True(t, errors.As(outcome.Err, &handlerErr))
}
