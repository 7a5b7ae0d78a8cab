// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках и маскировки токенов.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Secret возвращает slog.Attr с маскированным значением секрета:
// в лог попадают только первые 6 символов. Используется для bearer-токенов
// и ключей идентификационного провайдера.
func Secret(key, value string) slog.Attr {
	masked := value
	if len(masked) > 6 {
		masked = masked[:6] + "..."
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
