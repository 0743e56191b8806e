// Package policy реализует чистую функцию принятия решений о доступе.
//
// Правила собираются из предикатов явными комбинаторами And/Or/Not, порядок и
// состав которых фиксирован таблицей правил: модератор правит любой контент,
// но не создаёт и не удаляет его; владелец распоряжается своим контентом
// полностью, кроме случаев, когда та же учётная запись состоит в модераторах.
// Пакет не обращается к хранилищу и ничего не мутирует.
package policy

// Action действие над ресурсом каталога.
type Action string

// Допустимые действия.
const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Subject субъект запроса. Для анонимного запроса Authenticated == false,
// остальные поля не имеют значения.
type Subject struct {
	UID           string
	Authenticated bool
	Moderator     bool
}

// Resource целевой ресурс. OwnerUID пустой, если владелец удалён
// или ресурс ещё не создан.
type Resource struct {
	OwnerUID string
}

// Effect результат решения. Разделяет отсутствие учётных данных (401)
// и запрет для аутентифицированного субъекта (403).
type Effect int

// Возможные результаты решения.
const (
	EffectAllow Effect = iota
	EffectUnauthenticated
	EffectForbidden
)

// Rule предикат над субъектом и ресурсом.
type Rule func(s Subject, r Resource) bool

// And возвращает правило, истинное когда истинны все вложенные.
func And(rules ...Rule) Rule {
	return func(s Subject, r Resource) bool {
		for _, rule := range rules {
			if !rule(s, r) {
				return false
			}
		}
		return true
	}
}

// Or возвращает правило, истинное когда истинно хотя бы одно вложенное.
func Or(rules ...Rule) Rule {
	return func(s Subject, r Resource) bool {
		for _, rule := range rules {
			if rule(s, r) {
				return true
			}
		}
		return false
	}
}

// Not возвращает отрицание правила.
func Not(rule Rule) Rule {
	return func(s Subject, r Resource) bool {
		return !rule(s, r)
	}
}

// Authenticated истинно для аутентифицированного субъекта.
func Authenticated(s Subject, _ Resource) bool { return s.Authenticated }

// Moderator истинно для членов группы модераторов.
func Moderator(s Subject, _ Resource) bool { return s.Moderator }

// Owner истинно, когда субъект владеет ресурсом.
func Owner(s Subject, r Resource) bool {
	return r.OwnerUID != "" && s.UID == r.OwnerUID
}

// catalogRules таблица правил для курсов и уроков, у обоих одна форма.
var catalogRules = map[Action]Rule{
	ActionList:     Authenticated,
	ActionRetrieve: Authenticated,
	ActionCreate:   And(Authenticated, Not(Moderator)),
	ActionUpdate:   And(Authenticated, Or(Moderator, Owner)),
	ActionDelete:   And(Authenticated, Owner, Not(Moderator)),
}

// Decide принимает решение по таблице правил. Неизвестное действие требует
// только аутентификации. Отсутствие учётных данных всегда даёт
// EffectUnauthenticated, а не EffectForbidden.
func Decide(s Subject, a Action, r Resource) Effect {
	if !s.Authenticated {
		return EffectUnauthenticated
	}
	rule, ok := catalogRules[a]
	if !ok {
		rule = Authenticated
	}
	if !rule(s, r) {
		return EffectForbidden
	}
	return EffectAllow
}
