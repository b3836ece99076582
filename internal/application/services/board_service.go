package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/logger"
	"github.com/yearboard/core/internal/ports"
)

const persistTimeout = 10 * time.Second

type persistJob struct {
	label string
	run   func(ctx context.Context) error
}

// BoardService owns the in-memory board state for one profile. Mutations
// apply to memory first and are persisted by a background worker, so the
// UI never blocks on the store. Pending writes are keyed per entity, so
// a burst of updates to the same rectangle collapses to one write
// carrying the latest state. A failed write is reported through the
// notify callback; the in-memory state is not rolled back.
type BoardService struct {
	repo    ports.BoardRepository
	ownerID uuid.UUID
	year    int
	log     *logger.Logger

	data *entities.AppData

	notify   func(msg string)
	onChange func()

	mu      sync.Mutex
	pending map[string]persistJob
	order   []string
	closing bool
	wake    chan struct{}
	wg      sync.WaitGroup
}

// NewBoardService creates the service. notify is invoked from the worker
// goroutine when persistence fails; onChange is invoked on the caller's
// goroutine after every in-memory mutation. Either may be nil.
func NewBoardService(repo ports.BoardRepository, ownerID uuid.UUID, year int, log *logger.Logger, notify func(string), onChange func()) *BoardService {
	s := &BoardService{
		repo:     repo,
		ownerID:  ownerID,
		year:     year,
		log:      log.WithComponent("board"),
		data:     entities.NewAppData(),
		notify:   notify,
		onChange: onChange,
		pending:  make(map[string]persistJob),
		wake:     make(chan struct{}, 1),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Load replaces the in-memory state with the store's contents.
func (s *BoardService) Load(ctx context.Context) error {
	data, err := s.repo.Fetch(ctx, s.ownerID)
	if err != nil {
		return err
	}
	s.data = data
	s.changed()
	return nil
}

// Data returns the live board state. Callers mutate it only through the
// service; all access happens on the UI goroutine.
func (s *BoardService) Data() *entities.AppData {
	return s.data
}

// Year returns the board year.
func (s *BoardService) Year() int {
	return s.year
}

// SaveDay validates and stores a day entry. An entry with no content
// removes the day instead, so cleared days do not linger as blank rows.
func (s *BoardService) SaveDay(entry entities.DayEntry) error {
	if err := entry.Validate(s.year); err != nil {
		return err
	}
	if entry.IsEmpty() {
		return s.DeleteDay(entry.Date)
	}
	s.data.Days[entry.Date] = entry
	s.changed()
	s.enqueue("save day "+entry.Date, func(ctx context.Context) error {
		return s.repo.UpsertDay(ctx, s.ownerID, entry)
	})
	return nil
}

// DeleteDay removes a day entry. Deleting an absent day is a no-op.
func (s *BoardService) DeleteDay(date string) error {
	if _, ok := s.data.Days[date]; !ok {
		return nil
	}
	delete(s.data.Days, date)
	s.changed()
	s.enqueue("delete day "+date, func(ctx context.Context) error {
		err := s.repo.DeleteDay(ctx, s.ownerID, date)
		if err == entities.ErrDayNotFound {
			return nil
		}
		return err
	})
	return nil
}

// SaveEvent validates and stores an event, minting an id for new ones.
func (s *BoardService) SaveEvent(event entities.CalendarEvent) (entities.CalendarEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Color == "" {
		event.Color = entities.ColorForCategory(event.Category)
	}
	if err := event.Validate(s.year); err != nil {
		return entities.CalendarEvent{}, err
	}
	if i := s.data.FindEvent(event.ID); i >= 0 {
		s.data.Events[i] = event
	} else {
		s.data.Events = append(s.data.Events, event)
	}
	s.changed()
	ev := event
	s.enqueue("save event "+event.ID, func(ctx context.Context) error {
		return s.repo.UpsertEvent(ctx, s.ownerID, ev)
	})
	return event, nil
}

// DeleteEvent removes an event by id.
func (s *BoardService) DeleteEvent(id string) error {
	i := s.data.FindEvent(id)
	if i < 0 {
		return entities.ErrEventNotFound
	}
	s.data.Events = append(s.data.Events[:i], s.data.Events[i+1:]...)
	s.changed()
	s.enqueue("delete event "+id, func(ctx context.Context) error {
		err := s.repo.DeleteEvent(ctx, s.ownerID, id)
		if err == entities.ErrEventNotFound {
			return nil
		}
		return err
	})
	return nil
}

// SaveRectangle stores an annotation rectangle. Geometry is normalized so
// the store never sees negative spans.
func (s *BoardService) SaveRectangle(rect entities.CanvasRectangle) (entities.CanvasRectangle, error) {
	if rect.ID == "" {
		rect.ID = uuid.NewString()
	}
	rect = rect.Normalized()
	if i := s.data.FindRectangle(rect.ID); i >= 0 {
		s.data.Rectangles[i] = rect
	} else {
		s.data.Rectangles = append(s.data.Rectangles, rect)
	}
	s.changed()
	rc := rect
	s.enqueue("save rectangle "+rect.ID, func(ctx context.Context) error {
		return s.repo.UpsertRectangle(ctx, s.ownerID, rc)
	})
	return rect, nil
}

// DeleteRectangle removes an annotation rectangle by id.
func (s *BoardService) DeleteRectangle(id string) error {
	i := s.data.FindRectangle(id)
	if i < 0 {
		return entities.ErrRectangleNotFound
	}
	s.data.Rectangles = append(s.data.Rectangles[:i], s.data.Rectangles[i+1:]...)
	s.changed()
	s.enqueue("delete rectangle "+id, func(ctx context.Context) error {
		err := s.repo.DeleteRectangle(ctx, s.ownerID, id)
		if err == entities.ErrRectangleNotFound {
			return nil
		}
		return err
	})
	return nil
}

// ResetAll clears every day, event and rectangle.
func (s *BoardService) ResetAll() {
	s.data = entities.NewAppData()
	s.changed()
	s.enqueue("reset board", func(ctx context.Context) error {
		return s.repo.ResetAll(ctx, s.ownerID)
	})
}

// ReplaceAll swaps the whole board for data, persisting it as a reset
// followed by upserts. Used by snapshot import.
func (s *BoardService) ReplaceAll(data *entities.AppData) {
	s.data = data
	s.changed()
	days := make([]entities.DayEntry, 0, len(data.Days))
	for _, d := range data.Days {
		days = append(days, d)
	}
	events := append([]entities.CalendarEvent(nil), data.Events...)
	rects := append([]entities.CanvasRectangle(nil), data.Rectangles...)
	s.enqueue("import board", func(ctx context.Context) error {
		if err := s.repo.ResetAll(ctx, s.ownerID); err != nil {
			return err
		}
		for _, d := range days {
			if err := s.repo.UpsertDay(ctx, s.ownerID, d); err != nil {
				return err
			}
		}
		for _, ev := range events {
			if err := s.repo.UpsertEvent(ctx, s.ownerID, ev); err != nil {
				return err
			}
		}
		for _, rc := range rects {
			if err := s.repo.UpsertRectangle(ctx, s.ownerID, rc); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close waits for queued writes to drain. No mutation may be issued
// after Close.
func (s *BoardService) Close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	close(s.wake)
	s.wg.Wait()
}

func (s *BoardService) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// enqueue hands a write to the worker without ever blocking the caller.
// The label names the entity (e.g. "save rectangle <id>"); a write whose
// label is already pending replaces the queued one and moves to the back
// of the queue, so a rectangle drag that saves on every tick leaves at
// most one queued write holding the final geometry, ordered after every
// operation issued in between.
func (s *BoardService) enqueue(label string, run func(ctx context.Context) error) {
	s.mu.Lock()
	if _, ok := s.pending[label]; ok {
		for i, l := range s.order {
			if l == label {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.order = append(s.order, label)
	s.pending[label] = persistJob{label: label, run: run}
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *BoardService) worker() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for len(s.order) == 0 {
			if s.closing {
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()
			<-s.wake
			s.mu.Lock()
		}
		label := s.order[0]
		s.order = s.order[1:]
		job := s.pending[label]
		delete(s.pending, label)
		s.mu.Unlock()
		s.execute(job)
	}
}

func (s *BoardService) execute(job persistJob) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := job.run(ctx); err != nil {
		s.log.WithError(err).Errorw("persist failed", "op", job.label)
		if s.notify != nil {
			s.notify("could not " + job.label + ": changes kept in memory only")
		}
	}
}
