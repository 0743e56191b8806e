package policy

// View вариант проекции профиля.
type View int

// Возможные проекции профиля.
const (
	// ViewPublic публичные поля профиля.
	ViewPublic View = iota
	// ViewFull полный профиль с приватными полями и историей платежей.
	ViewFull
)

// ProfileView выбирает проекцию профиля: владелец видит полный профиль,
// все остальные — публичный. Это выбор варианта, а не allow/deny:
// сам доступ на чтение уже разрешён любому аутентифицированному субъекту.
func ProfileView(s Subject, targetUID string) View {
	if s.Authenticated && s.UID == targetUID {
		return ViewFull
	}
	return ViewPublic
}

// ProfileMutation решает, можно ли менять или удалять профиль. Разрешено
// только самому владельцу, модераторского обхода для профилей нет.
func ProfileMutation(s Subject, targetUID string) Effect {
	if !s.Authenticated {
		return EffectUnauthenticated
	}
	if s.UID != targetUID {
		return EffectForbidden
	}
	return EffectAllow
}
