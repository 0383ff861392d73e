package ui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/ytget/vidgrab/internal/download"
	"github.com/ytget/vidgrab/internal/metadata"
	"github.com/ytget/vidgrab/internal/platform"
	"github.com/ytget/vidgrab/internal/process"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Language codes
const (
	LangSystem  = "system"
	LangEnglish = "en"
)

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyFetch             = "fetch"
	KeyDownload          = "download"
	KeyCancel            = "cancel"
	KeyOpenFolder        = "open_folder"
	KeyOpenFile          = "open_file"
	KeyCopyPath          = "copy_path"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyDownloadDirectory = "download_directory"
	KeyYTDLPPath         = "ytdlp_path"
	KeyFilenameTemplate  = "filename_template"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeyFormat            = "format"
	KeyFetchingInfo      = "fetching_info"
	KeySettingsSaved     = "settings_saved"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyPathCopied        = "path_copied"
	KeyAutoDetect        = "auto_detect"
	KeyRestartRequired   = "restart_required"
	KeyDownloadCompleted = "download_completed"

	KeyStatusIdle      = "status_idle"
	KeyStatusStarting  = "status_starting"
	KeyStatusRunning   = "status_running"
	KeyStatusCompleted = "status_completed"
	KeyStatusFailed    = "status_failed"
	KeyStatusCancelled = "status_cancelled"

	KeyErrUnsupportedURL = "err_unsupported_url"
	KeyErrToolMissing    = "err_tool_missing"
	KeyErrParse          = "err_parse"
	KeyErrToolFailed     = "err_tool_failed"
	KeyErrBusy           = "err_busy"
	KeyErrShutdown       = "err_shutdown"
	KeyErrTimeout        = "err_timeout"
	KeyErrOpenFolder     = "err_open_folder"
	KeyErrUnknown        = "err_unknown"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: LangEnglish,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the language from
// the LANG environment variable when it is translated.
func (l *Localization) SetLanguage(lang string) {
	if lang == LangSystem {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLanguage reads the language part of LC_ALL or LANG, e.g. "vi" from "vi_VN.UTF-8"
func systemLanguage() string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			lang, _, _ := strings.Cut(v, "_")
			lang, _, _ = strings.Cut(lang, ".")
			return strings.ToLower(lang)
		}
	}
	return LangEnglish
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[LangEnglish]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"vi": "Tiếng Việt",
		"ru": "Русский",
	}
}

// ErrorMessage maps an engine error to one localized message. Exit codes
// and stderr stay in the log.
func (l *Localization) ErrorMessage(err error) string {
	var (
		unsupported *metadata.UnsupportedURLError
		parseErr    *metadata.ParseError
		spawnErr    *process.SpawnError
		exitErr     *process.ExitError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &unsupported):
		return l.GetText(KeyErrUnsupportedURL)
	case errors.As(err, &spawnErr):
		if spawnErr.Err != nil {
			return l.GetText(KeyErrToolMissing) + ": " + spawnErr.Err.Error()
		}
		return l.GetText(KeyErrToolMissing)
	case errors.Is(err, platform.ErrYTDLPNotFound):
		return l.GetText(KeyErrToolMissing)
	case errors.As(err, &parseErr):
		return l.GetText(KeyErrParse)
	case errors.As(err, &exitErr):
		return l.GetText(KeyErrToolFailed)
	case errors.Is(err, download.ErrSessionBusy):
		return l.GetText(KeyErrBusy)
	case errors.Is(err, download.ErrShutdown):
		return l.GetText(KeyErrShutdown)
	case errors.Is(err, context.DeadlineExceeded):
		return l.GetText(KeyErrTimeout)
	default:
		return l.GetText(KeyErrUnknown)
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "VidGrab",
		KeyFetch:             "Fetch",
		KeyDownload:          "Download",
		KeyCancel:            "Cancel",
		KeyOpenFolder:        "Open folder",
		KeyOpenFile:          "Show file",
		KeyCopyPath:          "Copy path",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyDownloadDirectory: "Download Directory",
		KeyYTDLPPath:         "yt-dlp Executable",
		KeyFilenameTemplate:  "Filename Template",
		KeyAutoReveal:        "Show file when finished",
		KeySave:              "Save",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Paste a TikTok, Instagram, Facebook, YouTube or X link",
		KeyFormat:            "Format",
		KeyFetchingInfo:      "Fetching video info...",
		KeySettingsSaved:     "Settings saved",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyPathCopied:        "Path copied to clipboard",
		KeyAutoDetect:        "auto-detect",
		KeyRestartRequired:   "Restart to use the new yt-dlp path",
		KeyDownloadCompleted: "Download completed",

		KeyStatusIdle:      "Ready",
		KeyStatusStarting:  "Starting...",
		KeyStatusRunning:   "Downloading",
		KeyStatusCompleted: "Completed",
		KeyStatusFailed:    "Failed",
		KeyStatusCancelled: "Cancelled",

		KeyErrUnsupportedURL: "This link is not supported. Use a TikTok, Instagram, Facebook, YouTube or X video URL.",
		KeyErrToolMissing:    "yt-dlp was not found. Install it or set its path in Settings.",
		KeyErrParse:          "Could not read the video information.",
		KeyErrToolFailed:     "The download tool reported an error. The video may be private or unavailable.",
		KeyErrBusy:           "A download is already in progress.",
		KeyErrShutdown:       "The application is closing.",
		KeyErrTimeout:        "The request took too long. Check your connection and try again.",
		KeyErrOpenFolder:     "Could not open the folder",
		KeyErrUnknown:        "Something went wrong.",
	}

	l.texts["vi"] = map[string]string{
		KeyAppTitle:          "VidGrab",
		KeyFetch:             "Lấy thông tin",
		KeyDownload:          "Tải xuống",
		KeyCancel:            "Hủy",
		KeyOpenFolder:        "Mở thư mục",
		KeyOpenFile:          "Hiện tệp",
		KeyCopyPath:          "Sao chép đường dẫn",
		KeySettings:          "Cài đặt",
		KeyFile:              "Tệp",
		KeyLanguage:          "Ngôn ngữ",
		KeyDownloadDirectory: "Thư mục tải xuống",
		KeyYTDLPPath:         "Tệp thực thi yt-dlp",
		KeyFilenameTemplate:  "Mẫu tên tệp",
		KeyAutoReveal:        "Hiện tệp khi hoàn tất",
		KeySave:              "Lưu",
		KeyBrowse:            "Chọn",
		KeyEnterURL:          "Dán liên kết TikTok, Instagram, Facebook, YouTube hoặc X",
		KeyFormat:            "Định dạng",
		KeyFetchingInfo:      "Đang lấy thông tin video...",
		KeySettingsSaved:     "Đã lưu cài đặt",
		KeyPleaseEnterURL:    "Vui lòng nhập URL",
		KeyPathCopied:        "Đã sao chép đường dẫn",
		KeyAutoDetect:        "tự động",
		KeyRestartRequired:   "Khởi động lại để dùng đường dẫn yt-dlp mới",
		KeyDownloadCompleted: "Tải xuống hoàn tất",

		KeyStatusIdle:      "Sẵn sàng",
		KeyStatusStarting:  "Đang bắt đầu...",
		KeyStatusRunning:   "Đang tải",
		KeyStatusCompleted: "Hoàn tất",
		KeyStatusFailed:    "Thất bại",
		KeyStatusCancelled: "Đã hủy",

		KeyErrUnsupportedURL: "Liên kết không được hỗ trợ. Hãy dùng URL video TikTok, Instagram, Facebook, YouTube hoặc X.",
		KeyErrToolMissing:    "Không tìm thấy yt-dlp. Hãy cài đặt hoặc chỉ đường dẫn trong Cài đặt.",
		KeyErrParse:          "Không đọc được thông tin video.",
		KeyErrToolFailed:     "Công cụ tải báo lỗi. Video có thể ở chế độ riêng tư hoặc không khả dụng.",
		KeyErrBusy:           "Đang có một lượt tải khác.",
		KeyErrShutdown:       "Ứng dụng đang đóng.",
		KeyErrTimeout:        "Yêu cầu quá lâu. Kiểm tra kết nối và thử lại.",
		KeyErrOpenFolder:     "Không mở được thư mục",
		KeyErrUnknown:        "Đã xảy ra lỗi.",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "VidGrab",
		KeyFetch:             "Получить",
		KeyDownload:          "Скачать",
		KeyCancel:            "Отмена",
		KeyOpenFolder:        "Открыть папку",
		KeyOpenFile:          "Показать файл",
		KeyCopyPath:          "Копировать путь",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyDownloadDirectory: "Папка загрузки",
		KeyYTDLPPath:         "Исполняемый файл yt-dlp",
		KeyFilenameTemplate:  "Шаблон имени файла",
		KeyAutoReveal:        "Показать файл по завершении",
		KeySave:              "Сохранить",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Вставьте ссылку TikTok, Instagram, Facebook, YouTube или X",
		KeyFormat:            "Формат",
		KeyFetchingInfo:      "Получение информации о видео...",
		KeySettingsSaved:     "Настройки сохранены",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyPathCopied:        "Путь скопирован",
		KeyAutoDetect:        "автоопределение",
		KeyRestartRequired:   "Перезапустите, чтобы применить новый путь к yt-dlp",
		KeyDownloadCompleted: "Загрузка завершена",

		KeyStatusIdle:      "Готово",
		KeyStatusStarting:  "Запуск...",
		KeyStatusRunning:   "Загрузка",
		KeyStatusCompleted: "Завершено",
		KeyStatusFailed:    "Ошибка",
		KeyStatusCancelled: "Отменено",

		KeyErrUnsupportedURL: "Ссылка не поддерживается. Используйте ссылку на видео TikTok, Instagram, Facebook, YouTube или X.",
		KeyErrToolMissing:    "yt-dlp не найден. Установите его или укажите путь в настройках.",
		KeyErrParse:          "Не удалось прочитать информацию о видео.",
		KeyErrToolFailed:     "Инструмент загрузки сообщил об ошибке. Видео может быть закрытым или недоступным.",
		KeyErrBusy:           "Загрузка уже выполняется.",
		KeyErrShutdown:       "Приложение закрывается.",
		KeyErrTimeout:        "Запрос выполнялся слишком долго. Проверьте соединение и повторите.",
		KeyErrOpenFolder:     "Не удалось открыть папку",
		KeyErrUnknown:        "Что-то пошло не так.",
	}
}

// StatusText returns the localized label of a session state key
func (l *Localization) StatusText(state string) string {
	switch state {
	case "Starting":
		return l.GetText(KeyStatusStarting)
	case "Running":
		return l.GetText(KeyStatusRunning)
	case "Completed":
		return l.GetText(KeyStatusCompleted)
	case "Failed":
		return l.GetText(KeyStatusFailed)
	case "Cancelled":
		return l.GetText(KeyStatusCancelled)
	default:
		return l.GetText(KeyStatusIdle)
	}
}
