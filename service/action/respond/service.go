package respond

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
	"github.com/viant/chatflow/runtime/execution"
)

// Handlers returns every responder handler.
func Handlers(opts ...Option) []types.Handler {
	o := newOptions(opts)
	return []types.Handler{
		types.NewHandler(model.NodeTypeDataProcessor, dataProcessor),
		types.NewHandler(model.NodeTypeDatabaseQuery, o.databaseQuery),
		types.NewHandler(model.NodeTypePaymentProcessor, o.paymentProcessor),
		types.NewHandler(model.NodeTypeCalendarProcessor, calendarProcessor),
		types.NewHandler(model.NodeTypeStaticResponder, staticResponder),
		types.NewHandler(model.NodeTypeFormProcessor, formProcessor),
		types.NewHandler(model.NodeTypeAIResponder, aiResponder),
	}
}

func dataProcessor(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.DataProcessorConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	text, err := Render(config.ResponseTemplate, config.Data)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	data := make(map[string]string, len(config.Data))
	for k, v := range config.Data {
		data[k] = v
	}
	execCtx.SetResponse(data, text)
	return execution.Continue(node.Next()...)
}

func (o *options) databaseQuery(ctx context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.DatabaseQueryConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	if o.store == nil {
		return execution.Fail(execution.NewHandlerError(node.ID, fmt.Errorf("database error: no schedule store")))
	}
	schedules, err := o.store.Active(ctx)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, fmt.Errorf("database error: %w", err)))
	}
	if len(schedules) == 0 {
		execCtx.SetResponse(schedules, config.EmptyResponse)
		return execution.Continue(node.Next()...)
	}
	var b strings.Builder
	b.WriteString(config.Title)
	b.WriteString("\n\n")
	for _, item := range schedules {
		fmt.Fprintf(&b, "📅 %s\n🕐 %s\n👨‍🏫 Ustadz %s\n📖 Tema: %s\n📍 %s\n\n", item.Date, item.Time, item.Speaker, item.Topic, item.Place)
	}
	b.WriteString(config.Footer)
	execCtx.SetResponse(schedules, b.String())
	return execution.Continue(node.Next()...)
}

func (o *options) paymentProcessor(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.PaymentConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	adminPhone := config.AdminPhone
	if adminPhone == "" {
		adminPhone = o.env("ADMIN_PHONE")
	}
	if adminPhone == "" {
		adminPhone = DefaultAdminPhone
	}
	var b strings.Builder
	b.WriteString("💰 *Donasi & Infaq Masjid*\n\n🏦 *Transfer Bank:*\n")
	for _, account := range config.BankAccounts {
		fmt.Fprintf(&b, "🏧 %s: %s\na.n %s\n\n", account.Bank, account.AccountNumber, account.AccountName)
	}
	fmt.Fprintf(&b, "📱 *QRIS:*\n%s\n\n", config.QRISCode)
	b.WriteString("Jazakallahu khairan atas kebaikan Anda! 🤲\n\n")
	b.WriteString("Konfirmasi donasi ke: " + adminPhone)
	execCtx.SetResponse(map[string]interface{}{"bank_accounts": config.BankAccounts, "qris": config.QRISCode}, b.String())
	return execution.Continue(node.Next()...)
}

func calendarProcessor(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.CalendarConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	var b strings.Builder
	b.WriteString("📅 *Agenda Kegiatan Masjid*\n\n")
	for _, event := range config.Events {
		fmt.Fprintf(&b, "📋 %s\n📅 %s\n🕐 %s\n📍 %s\n👥 %s\n💵 %s\n\n", event.Name, event.Date, event.Time, event.Place, event.Audience, event.Fee)
	}
	b.WriteString("Daftarkan diri Anda! 📝")
	execCtx.SetResponse(config.Events, b.String())
	return execution.Continue(node.Next()...)
}

func staticResponder(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.StaticResponderConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	info := config.Info
	var b strings.Builder
	fmt.Fprintf(&b, "🕌 *Masjid %s*\n\n", info.Name)
	fmt.Fprintf(&b, "📍 Alamat: %s\n☎️ Telepon: %s\n📧 Email: %s\n🕐 Jam Buka: %s\n\n", info.Address, info.Phone, info.Email, info.OpeningHours)
	b.WriteString("🏢 *Fasilitas:*\n")
	for _, facility := range info.Facilities {
		b.WriteString("✅ " + facility + "\n")
	}
	fmt.Fprintf(&b, "\n👨‍💼 Takmir: %s\n📱 Kontak: %s\n\n", info.Caretaker, info.CaretakerContact)
	b.WriteString("Selamat datang di masjid kami! 🤲")
	execCtx.SetResponse(info, b.String())
	return execution.Continue(node.Next()...)
}

func formProcessor(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.FormConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	var b strings.Builder
	b.WriteString(config.Title + "\n\n")
	b.WriteString("📋 *Dokumen yang diperlukan:*\n")
	for _, document := range config.RequiredDocuments {
		b.WriteString("📄 " + document + "\n")
	}
	b.WriteString("\n📝 *Tahapan Proses:*\n")
	for i, step := range config.ProcessSteps {
		b.WriteString(strconv.Itoa(i+1) + ". " + step + "\n")
	}
	fmt.Fprintf(&b, "\n👨‍🏫 Narahubung: %s\n\n", config.ContactPerson)
	b.WriteString("Semoga Allah mudahkan urusan Anda! 🤲")
	execCtx.SetResponse(map[string][]string{"documents": config.RequiredDocuments, "steps": config.ProcessSteps}, b.String())
	return execution.Continue(node.Next()...)
}

func aiResponder(_ context.Context, node *model.Node, execCtx *execution.Context) *execution.Outcome {
	config, err := types.ConfigOf[*model.AIResponderConfig](node)
	if err != nil {
		return execution.Fail(execution.NewHandlerError(node.ID, err))
	}
	response := model.DefaultFallbackResponse
	if len(config.FallbackResponses) > 0 {
		response = config.FallbackResponses[0]
	}
	execCtx.FormattedResponse = response
	return execution.Continue(node.Next()...)
}
