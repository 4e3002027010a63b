package controllers

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aadykin95/telegram-food-bot-render/models"
	"github.com/aadykin95/telegram-food-bot-render/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgHelp = "ℹ️ Команды:\n" +
		"• /start — приветствие\n" +
		"• /menu — меню\n" +
		"• /report today|week|month — отчёты\n\n" +
		"🍏 Пиши продукты или отправляй фото еды"
	msgMenu = "📌 Меню:\n\n" +
		"🍏 Пиши продукты или отправляй фото\n" +
		"📊 Выбери период для отчёта:"

	msgReportUsage   = "❗ Используй: /report today | week | month"
	msgUnknownPeriod = "❗ Неизвестный период. Доступно: today | week | month"
	msgNoData        = "📭 У тебя нет данных за этот период."
	msgNoDataPeriod  = "📭 У тебя нет данных за выбранный период."
	msgReportFailed  = "❌ Не получилось построить отчёт. Попробуй позже."

	msgLogged          = "✅ Записано в журнал!"
	msgLoggedNoCal     = "✅ Записано в журнал! (калории не найдены)"
	msgLogFailed       = "❌ Не получилось записать в журнал. Попробуй ещё раз."
	msgFormatHint      = "Не понял, что записать. Напиши продукты и количество, например: «банан 1шт, яблоко 150 г»."
	msgDownloadFailed  = "Не получилось скачать фото. Попробуй ещё раз."
	msgRecognizeFailed = "Не получилось распознать еду на фото. Напиши вручную, например: «банан 1шт, яблоко 150 г»."
	msgNothingOnPhoto  = "На фото не распознал еду. Напиши, что на фото и сколько.\n\nНапример: «овсянка 200г, кофе 250мл»"
	msgPhotoFailed     = "❌ Не удалось обработать фото. Попробуйте написать продукты вручную."
	msgPhotoMissing    = "❌ Данные о фото не найдены. Попробуйте отправить фото снова."
	msgManualPrompt    = "✏️ Напишите продукты и количество вручную:\n\nНапример: «банан 150г, яблоко 200г»"
)

// callback data of the inline buttons
const (
	cbReportPrefix = "report_"
	cbHelp         = "help"
	cbAcceptPhoto  = "accept_photo"
	cbManualInput  = "manual_input"
)

func welcomeText(firstName string) string {
	return fmt.Sprintf("👋 Привет, %s!\n\n"+
		"Я бот для подсчёта калорий. Пиши продукты или отправляй фото еды.\n"+
		"📊 Отчёты: /report today|week|month", firstName)
}

func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Сегодня", cbReportPrefix+string(models.PeriodToday)),
			tgbotapi.NewInlineKeyboardButtonData("📊 Неделя", cbReportPrefix+string(models.PeriodWeek)),
			tgbotapi.NewInlineKeyboardButtonData("📊 Месяц", cbReportPrefix+string(models.PeriodMonth)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Помощь", cbHelp),
		),
	)
}

func photoPrompt(labels []string) string {
	return fmt.Sprintf("На фото вижу: %s.\n\nВыберите действие или напишите корректировки:", strings.Join(labels, ", "))
}

func photoKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Принять как есть", cbAcceptPhoto),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Написать вручную", cbManualInput),
		),
	)
}

// FormatLogResult lists every item (found or not) followed by the totals.
func FormatLogResult(res *services.LogResult) string {
	if res.Nutrition.Resolved() == 0 {
		return msgLoggedNoCal
	}

	var b strings.Builder
	for _, it := range res.Nutrition.Items {
		name := it.Item.Name
		if !it.Found() {
			fmt.Fprintf(&b, "🍽 %s — калории не найдены\n", capitalize(name))
			continue
		}
		if it.Info.Name != "" {
			name = it.Info.Name
		}
		n := it.Info.Nutrients
		fmt.Fprintf(&b, "🍽 %s — %.0fг, %.0fккал\n", capitalize(name), n.Grams, n.Calories)
	}

	t := res.Nutrition.Totals
	fmt.Fprintf(&b, "\n⚖️ %.0fг\n🔥 %.0fккал\n💪 Б%.1fг\n🥑 Ж%.1fг\n🍞 У%.1fг\n", t.Grams, t.Calories, t.Protein, t.Fat, t.Carbs)
	b.WriteString(msgLogged)
	return b.String()
}

// FormatReport renders the period totals. The chart is sent separately.
func FormatReport(rep *models.Report) string {
	t := rep.Totals
	return fmt.Sprintf("📊 Отчёт за %s:\n"+
		"⚖️ Вес: %.0f г\n"+
		"🔥 Калории: %.1f\n"+
		"💪 Белки: %.1f г\n"+
		"🥑 Жиры: %.1f г\n"+
		"🍞 Углеводы: %.1f г",
		rep.Period, t.Grams, t.Calories, t.Protein, t.Fat, t.Carbs)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
