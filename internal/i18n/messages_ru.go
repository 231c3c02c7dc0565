package i18n

// russianMessages contains all Russian translations.
var russianMessages = map[string]string{
	// Error messages
	"error.generic":              "Что-то пошло не так. Попробуйте ещё раз.",
	"error.missing_url":          "Пришлите ссылку на Яндекс Музыку.",
	"error.not_recognized":       "Это не ссылка на трек, альбом или плейлист Яндекс Музыки. Примеры: https://music.yandex.ru/album/5605637/track/42445828 или https://music.yandex.ru/album/5605637",
	"error.track_not_found":      "Трек не найден на Яндекс Музыке.",
	"error.collection_not_found": "Альбом или плейлист не найден на Яндекс Музыке.",
	"error.collection_empty":     "В этом альбоме или плейлисте нет треков.",
	"error.transport":            "Яндекс Музыка сейчас недоступна. Попробуйте позже.",
	"error.invalid_payload":      "Яндекс Музыка вернула данные, которые не удалось прочитать.",
	"error.stream_unavailable":   "Этот трек сейчас нельзя воспроизвести.",
	"error.nothing_playable":     "По этой ссылке нечего воспроизвести.",
	"error.rate_limited":         "Слишком много запросов. Подождите минуту.",
	"error.queue_full":           "Очередь заполнена. Ничего из этой ссылки не добавлено.",

	// Success messages
	"success.track":      "%s - %s",
	"success.collection": "%s: %d треков",
	"success.partial":    "%d из %d треков недоступны и пропущены.",
	"success.queued":     "В очередь добавлено %d треков, %d уже были в очереди.",
}
