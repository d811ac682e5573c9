package bot

// User-facing reply texts. The bot speaks Russian to end users.
const (
	replyWelcome = "👋 Добро пожаловать!\n\n" +
		"Мы помогаем найти товары в Китае. Нажмите кнопку ниже, чтобы отправить заявку."

	replyAskDescription = "📝 Опишите, какой товар вы ищете."

	replyAskContact = "📞 Оставьте контакт для связи."

	replyDescriptionTooShort = "⚠️ Пожалуйста, опишите товар подробнее (минимум 5 символов)."

	replyContactTooShort = "⚠️ Контакт слишком короткий, пожалуйста укажите корректный."

	replyThanks = "✅ Спасибо! Ваша заявка отправлена."

	replyAlreadyRequested = "Вы уже отправили заявку. Мы свяжемся как можно скорее!\n" +
		"/delete - чтобы отменить заявку.\n" +
		"/help - для просмотра команд."

	replyHelp = "/start – начать\n" +
		"/cancel – отменить во время заполнения\n" +
		"/help – помощь\n" +
		"/delete - удалить заявку полностью"

	replyNoRequest = "У Вас нет активной заявки."

	replyDeleted = "Ваша заявка успешно удалена."

	replyCancelled = "❌ Заявка отменена. Вы можете начать заново с /start."

	replyFailure = "⚠️ Что-то пошло не так. Попробуйте ещё раз чуть позже."

	replyUnknown = "❓ Неизвестная команда. Введите /help чтобы увидеть доступные команды."

	replySlowDown = "Слишком много сообщений, подождите немного."
)
