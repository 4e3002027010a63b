package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aadykin95/telegram-food-bot-render/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram bots cannot download files above 20 MB anyway.
const maxPhotoBytes = 20 << 20

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Doer downloads photo files; *http.Client and tgbotapi.HTTPClient fit.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type BotDeps struct {
	Bot          Sender
	Confirmation *services.ConfirmationService
	Photos       *services.PhotoService
	FoodLog      *services.FoodLogService
	Reports      *services.ReportService
	Charts       *services.ChartService
	HTTPClient   Doer // photo downloads
	Log          *zap.Logger
}

type BotController struct {
	BotDeps
}

func NewBotController(d BotDeps) *BotController {
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
	}
	return &BotController{BotDeps: d}
}

// Run handles updates one at a time until ctx is done or the channel closes.
func (h *BotController) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			h.HandleUpdate(ctx, u)
		}
	}
}

func (h *BotController) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		h.handleCallback(ctx, u.CallbackQuery)
	case u.Message == nil || u.Message.From == nil:
		return
	case u.Message.IsCommand():
		h.handleCommand(ctx, u.Message)
	case len(u.Message.Photo) > 0:
		h.handlePhoto(ctx, u.Message)
	case u.Message.Text != "":
		h.handleText(ctx, u.Message)
	}
}

func (h *BotController) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	switch m.Command() {
	case "start":
		h.send(chatID, welcomeText(m.From.FirstName))
		h.sendMenu(chatID)
	case "menu":
		h.sendMenu(chatID)
	case "report":
		h.sendReport(ctx, chatID, m.From.ID, m.CommandArguments())
	default:
		h.send(chatID, msgHelp)
	}
}

func (h *BotController) handleText(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	c, err := h.Confirmation.Resolve(ctx, m.From.ID, m.Text)
	switch {
	case errors.Is(err, services.ErrNothingDetected):
		h.send(chatID, msgPhotoFailed)
		return
	case err != nil:
		h.Log.Error("resolve confirmation", zap.Int64("user_id", m.From.ID), zap.Error(err))
		h.send(chatID, msgLogFailed)
		return
	case len(c.Items) == 0:
		h.send(chatID, msgFormatHint)
		return
	}
	h.send(chatID, h.logConfirmed(ctx, m.From, c))
}

func (h *BotController) handlePhoto(ctx context.Context, m *tgbotapi.Message) {
	chatID, userID := m.Chat.ID, m.From.ID
	largest := m.Photo[len(m.Photo)-1]

	image, err := h.download(ctx, largest.FileID)
	if err != nil {
		h.Log.Error("download photo", zap.Int64("user_id", userID), zap.Error(err))
		h.send(chatID, msgDownloadFailed)
		return
	}

	labels, err := h.Photos.Recognize(ctx, image)
	if err != nil {
		h.Log.Error("recognize photo", zap.Int64("user_id", userID), zap.Error(err))
		h.send(chatID, msgRecognizeFailed)
		return
	}
	photoURL := h.Photos.Store(ctx, userID, image)

	if err := h.Confirmation.Begin(ctx, userID, labels, photoURL); err != nil {
		h.Log.Error("begin confirmation", zap.Int64("user_id", userID), zap.Error(err))
		h.send(chatID, msgRecognizeFailed)
		return
	}
	if len(labels) == 0 {
		h.send(chatID, msgNothingOnPhoto)
		return
	}

	msg := tgbotapi.NewMessage(chatID, photoPrompt(labels))
	msg.ReplyMarkup = photoKeyboard()
	h.deliver(msg)
}

func (h *BotController) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := h.Bot.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		h.Log.Warn("answer callback", zap.Error(err))
	}
	if q.Message == nil || q.From == nil {
		return
	}
	chatID, msgID := q.Message.Chat.ID, q.Message.MessageID

	if period, ok := strings.CutPrefix(q.Data, cbReportPrefix); ok {
		h.sendReport(ctx, chatID, q.From.ID, period)
		return
	}

	switch q.Data {
	case cbHelp:
		h.send(chatID, msgHelp)
	case cbAcceptPhoto:
		c, err := h.Confirmation.Accept(ctx, q.From.ID)
		switch {
		case errors.Is(err, services.ErrNoPending):
			h.edit(chatID, msgID, msgPhotoMissing)
		case errors.Is(err, services.ErrNothingDetected):
			h.edit(chatID, msgID, msgPhotoFailed)
		case err != nil:
			h.Log.Error("accept photo", zap.Int64("user_id", q.From.ID), zap.Error(err))
			h.edit(chatID, msgID, msgLogFailed)
		default:
			h.edit(chatID, msgID, h.logConfirmed(ctx, q.From, c))
		}
	case cbManualInput:
		if err := h.Confirmation.Manual(ctx, q.From.ID); err != nil {
			h.Log.Error("manual input", zap.Int64("user_id", q.From.ID), zap.Error(err))
		}
		h.edit(chatID, msgID, msgManualPrompt)
	default:
		h.Log.Debug("unknown callback", zap.String("data", q.Data))
	}
}

// logConfirmed appends the entry and returns the reply text.
func (h *BotController) logConfirmed(ctx context.Context, from *tgbotapi.User, c *services.Confirmed) string {
	res, err := h.FoodLog.Log(ctx, services.LogEntry{
		UserID:   from.ID,
		Username: username(from),
		Items:    c.Items,
		DishText: c.DishText,
		PhotoURL: c.PhotoURL,
	})
	if err != nil {
		h.Log.Error("log food", zap.Int64("user_id", from.ID), zap.Error(err))
		return msgLogFailed
	}
	h.Log.Info("food logged",
		zap.Int64("user_id", from.ID),
		zap.String("record_id", res.Record.ID.String()),
		zap.Int("resolved", res.Nutrition.Resolved()),
		zap.Int("unresolved", res.Nutrition.Unresolved()),
	)
	return FormatLogResult(res)
}

func (h *BotController) sendReport(ctx context.Context, chatID, userID int64, periodArg string) {
	rep, err := h.Reports.Build(ctx, strconv.FormatInt(userID, 10), periodArg)
	switch {
	case errors.Is(err, services.ErrMissingPeriod):
		h.send(chatID, msgReportUsage)
		return
	case errors.Is(err, services.ErrUnknownPeriod):
		h.send(chatID, msgUnknownPeriod)
		return
	case err != nil:
		h.Log.Error("build report", zap.Int64("user_id", userID), zap.Error(err))
		h.send(chatID, msgReportFailed)
		return
	case rep.UserRows == 0:
		h.send(chatID, msgNoData)
		return
	case rep.Empty():
		h.send(chatID, msgNoDataPeriod)
		return
	}

	h.send(chatID, FormatReport(rep))

	png, err := h.Charts.Render(rep)
	if err != nil {
		h.Log.Error("render chart", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	h.deliver(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "report.png", Bytes: png}))
}

func (h *BotController) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}

func (h *BotController) sendMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, msgMenu)
	msg.ReplyMarkup = menuKeyboard()
	h.deliver(msg)
}

func (h *BotController) send(chatID int64, text string) {
	h.deliver(tgbotapi.NewMessage(chatID, text))
}

func (h *BotController) edit(chatID int64, msgID int, text string) {
	h.deliver(tgbotapi.NewEditMessageText(chatID, msgID, text))
}

func (h *BotController) deliver(c tgbotapi.Chattable) {
	if _, err := h.Bot.Send(c); err != nil {
		h.Log.Warn("telegram send failed", zap.Error(err))
	}
}

func username(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return strconv.FormatInt(u.ID, 10)
}
