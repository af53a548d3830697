package bot

// Reply keyboard labels. Incoming text equal to a label is a button press.
const (
	LabelUpload  = "📤 Загрузить"
	LabelGallery = "🖼 Галерея"
	LabelList    = "📂 Все ваши загрузки"
	LabelTags    = "🏷 Теги"
	LabelSearch  = "🔍 Поиск"

	LabelSearchDays  = "📅 За N дней"
	LabelSearchRange = "📅 Диапазон"
	LabelSearchID    = "🆔 По ID"
	LabelSearchText  = "🔎 По тексту"

	LabelCancel = "❌ Отменить"
	LabelToMain = "🏠 В главное меню"
)

// Commands.
const (
	CommandStart  = "/start"
	CommandHelp   = "/help"
	CommandCancel = "/cancel"
	CommandUpload = "/upload"
)

// Inline button captions.
const (
	buttonPrevPhoto  = "⏪"
	buttonNextPhoto  = "⏩"
	buttonDisabled   = "⛔️"
	buttonDelete     = "🗑 Удалить"
	buttonEdit       = "📝 Редактировать"
	buttonNewer      = "⬅️ След."
	buttonOlder      = "Пред. ➡️"
	buttonMenu       = "🏠 МЕНЮ"
	buttonPrevPage   = "⬅️"
	buttonNextPage   = "➡️"
	buttonEditText   = "📝 Текст"
	buttonEditMedia  = "🖼 Медиа"
	buttonBack       = "❌ Отмена"
	buttonConfirmDel = "🗑 Да, удалить"
	buttonUserTags   = "👤 Мои теги"
	buttonAITags     = "🤖 AI теги"
)

const textWelcome = "<b>🌟 Добро пожаловать в Smart SPB Media!</b>\n\n" +
	"Этот бот — ваш персональный умный архив для хранения и систематизации медиаконтента.\n\n" +
	"<b>Инструкция по использованию:</b>\n" +
	"1️⃣ Нажмите кнопку <b>«Загрузить»</b>.\n" +
	"2️⃣ Отправьте фото, видео или целый альбом.\n" +
	"3️⃣ Добавьте описание. Вы можете использовать теги через <code>#</code> (например, #природа).\n\n" +
	"<i>Используйте нижнее меню для навигации по вашей галерее и поиска записей.</i>"

// Replies.
const (
	textBackToMenu      = "🔙 Возвращаемся в меню."
	textChooseAction    = "Выберите действие в меню:"
	textUploadStart     = "📸 Шаг 1: Отправьте фото или видео (можно альбомом)."
	textAskDescription  = "✍️ Шаг 2: Введите описание к контенту:"
	textAlbumReceived   = "📥 Альбом получен. Теперь введите текстовое описание:"
	textSendText        = "Пожалуйста, отправьте именно текст."
	textSavedFmt        = "✅ Сохранено под номером: %d"
	textAlbumSavedFmt   = "✅ Альбом сохранен под номером: %d"
	textDescSavedFmt    = "✅ Успешно сохранено под номером: %d"
	textUnsupported     = "⚠️ Ошибка: Бот принимает только фото или видео. Пожалуйста, попробуйте снова."
	textArchiveEmpty    = "Ваш архив пока пуст. Самое время что-нибудь загрузить!"
	textEntryNotFound   = "❌ Запись с таким номером не найдена."
	textNothingFound    = "Ничего не найдено по вашему запросу."
	textListHeaderFmt   = "<b>📂 Найдено записей: %d (Стр. %d/%d)</b>\n"
	textGalleryFmt      = "<b>📦 Запись №%d</b>\n⏰ %s\n\n%s"
	textChooseTagOrigin = "Выберите категорию тегов:"
	textChooseTag       = "Выберите интересующий тег:"
	textChooseSearch    = "Выберите удобный способ поиска:"
	textAskDays         = "Введите количество дней (число):"
	textBadDays         = "Введите корректное число."
	textAskRange        = "Введите диапазон дат в формате: 01.01.2026-18.01.2026"
	textBadRange        = "Ошибка формата. Используйте ДД.ММ.ГГГГ-ДД.ММ.ГГГГ"
	textAskOrdinal      = "Введите порядковый номер записи:"
	textBadOrdinal      = "Введите число."
	textAskQuery        = "Введите слова для поиска:"
	textWhatToEdit      = "Что вы хотите изменить?"
	textAskNewMedia     = "Загрузите новые файлы для этой записи:"
	textAskNewDesc      = "Введите новое текстовое описание:"
	textDescUpdated     = "✅ Описание успешно обновлено"
	textMediaUpdated    = "✅ Медиафайлы обновлены!"
	textConfirmDelete   = "Вы уверены, что хотите удалить эту запись?"
	textDeleted         = "Удалено"
	textFailure         = "⚠️ Что-то пошло не так. Попробуйте ещё раз."
)
