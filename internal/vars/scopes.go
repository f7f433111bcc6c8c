package vars

// Scope is one string-keyed variable namespace. Implementations may be
// in-memory or write through to a persistent store.
type Scope interface {
	Get(name string) (string, bool)
	Set(name, value string)
}

type MapScope map[string]string

func NewMapScope() MapScope {
	return make(MapScope)
}

func (m MapScope) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapScope) Set(name, value string) {
	m[name] = value
}

// Scopes bundles the three variable namespaces seen by placeholder
// expansion. Temp is created fresh per invocation, which is what keeps
// concurrent invocations from sharing ephemeral state.
type Scopes struct {
	Chat   Scope
	Global Scope
	Temp   Scope
}

func NewScopes(chat, global Scope) *Scopes {
	return &Scopes{
		Chat:   chat,
		Global: global,
		Temp:   NewMapScope(),
	}
}
