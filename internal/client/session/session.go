package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/payasyougo/payasyougo/internal/lib/sl"
)

// Status — состояние машины авторизации.
type Status int

const (
	// StatusLoading действует от создания менеджера до завершения Restore.
	// Ни авторизованные запросы, ни редиректы на вход в этом состоянии
	// не принимаются.
	StatusLoading Status = iota
	// StatusAuthenticated означает восстановленную или свежую сессию.
	StatusAuthenticated
	// StatusUnauthenticated означает отсутствие сессии.
	StatusUnauthenticated
)

// Snapshot — наблюдаемое состояние сессии для подписчиков.
type Snapshot struct {
	Status   Status
	UserID   string
	Username string
}

// Manager владеет состоянием сессии. Все переходы сериализованы мьютексом.
//
// Счётчик поколений защищает от гонки между выходом и запоздалыми
// ответами: каждый Login и Logout увеличивает поколение, и ответ,
// начатый при старом поколении, не может ни разлогинить, ни оживить
// новую сессию.
type Manager struct {
	mu         sync.Mutex
	store      *Store
	log        *slog.Logger
	status     Status
	state      State
	generation uint64
	onChange   func(Snapshot)
}

// NewManager создает менеджер в состоянии Loading.
func NewManager(store *Store, log *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		log:    log,
		status: StatusLoading,
	}
}

// Subscribe регистрирует наблюдателя изменений сессии. Наблюдатель
// вызывается синхронно под мьютексом, поэтому не должен обращаться
// обратно к менеджеру.
func (m *Manager) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Restore читает сохранённую сессию и переводит менеджер из Loading в
// одно из конечных состояний. Частичный или повреждённый снимок
// равнозначен отсутствию сессии.
func (m *Manager) Restore() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.log.Warn("failed to load stored session", sl.Err(err))
		}
		m.status = StatusUnauthenticated
		m.state = State{}
		m.notify()
		return m.snapshot()
	}

	m.status = StatusAuthenticated
	m.state = state
	m.log.Info("session restored", slog.String("username", state.Username))
	m.notify()
	return m.snapshot()
}

// Login сохраняет новую сессию и переводит менеджер в Authenticated.
// Неполный снимок молча игнорируется: авторизованной может стать только
// сессия, где заполнены токен, идентификатор и имя. Ошибка записи на
// диск не мешает работе в памяти: сессия просто не переживёт перезапуск.
func (m *Manager) Login(state State) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !state.complete() {
		m.log.Warn("incomplete session state ignored")
		return m.snapshot()
	}

	if err := m.store.Save(state); err != nil {
		m.log.Warn("failed to persist session", sl.Err(err))
	}

	m.status = StatusAuthenticated
	m.state = state
	m.generation++
	m.notify()
	return m.snapshot()
}

// Logout очищает сессию и хранилище. Операция идемпотентна: повторный
// вызов в Unauthenticated ничего не меняет.
func (m *Manager) Logout() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutLocked()
}

func (m *Manager) logoutLocked() Snapshot {
	if err := m.store.Clear(); err != nil {
		m.log.Warn("failed to clear stored session", sl.Err(err))
	}

	if m.status != StatusUnauthenticated {
		m.status = StatusUnauthenticated
		m.state = State{}
		m.generation++
		m.notify()
	}
	return m.snapshot()
}

// Authorize возвращает токен для исходящего запроса вместе с номером
// поколения. Вызывающий обязан передать поколение обратно в
// HandleUnauthorized и StillCurrent.
func (m *Manager) Authorize() (token string, generation uint64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusAuthenticated {
		return "", m.generation, false
	}
	return m.state.AccessToken, m.generation, true
}

// HandleUnauthorized принудительно завершает сессию в ответ на 401.
// Срабатывает только если поколение запроса совпадает с текущим:
// запоздалый 401 от уже разлогиненной сессии игнорируется.
func (m *Manager) HandleUnauthorized(generation uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		m.log.Info("stale unauthorized response ignored")
		return
	}
	m.log.Info("session expired, forcing logout")
	m.logoutLocked()
}

// StillCurrent сообщает, относится ли ответ с данным поколением
// к действующей сессии. Ответы устаревших поколений отбрасываются.
func (m *Manager) StillCurrent(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return generation == m.generation
}

// Current возвращает снимок текущего состояния.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) snapshot() Snapshot {
	return Snapshot{
		Status:   m.status,
		UserID:   m.state.UserID,
		Username: m.state.Username,
	}
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange(m.snapshot())
	}
}
