package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bot-console/internal/apiclient"
	"bot-console/internal/model"
)

// Session problems bubble to the caller so the redirect machinery can take
// over; they never turn into an inline error toast.
func isUnauthorizedErr(err error) bool {
	return errors.Is(err, model.ErrUnauthorized) || errors.Is(err, model.ErrSessionExpired)
}

// TabFetch loads the data backing one tab of a detail view.
type TabFetch func(ctx context.Context, sess apiclient.Session) (any, error)

// DetailView fetches one entity's full record plus its related
// sub-collections for a tabbed modal. The preloaded tabs are fetched
// concurrently and joined before anything renders; one failed fetch aborts
// the whole open so a partial modal is never shown. Lazily declared tabs are
// fetched on first access and cached for the lifetime of the view.
type DetailView struct {
	title    string
	fetches  map[string]TabFetch
	preload  []string
	notifier Notifier

	mu    sync.Mutex
	cache map[string]any
}

func NewDetailView(title string, notifier Notifier) *DetailView {
	return &DetailView{
		title:    title,
		fetches:  map[string]TabFetch{},
		notifier: notifier,
		cache:    map[string]any{},
	}
}

// AddTab registers a tab fetched as part of Open.
func (d *DetailView) AddTab(name string, fetch TabFetch) *DetailView {
	d.fetches[name] = fetch
	d.preload = append(d.preload, name)
	return d
}

// AddLazyTab registers a tab fetched on first access only.
func (d *DetailView) AddLazyTab(name string, fetch TabFetch) *DetailView {
	d.fetches[name] = fetch
	return d
}

// Open issues every preloaded tab fetch concurrently and waits for all of
// them. Any failure surfaces as a single error notification and aborts the
// open; nothing is cached from a failed open.
func (d *DetailView) Open(ctx context.Context, sess apiclient.Session) (map[string]any, error) {
	type outcome struct {
		name string
		data any
		err  error
	}

	results := make(chan outcome, len(d.preload))
	var wg sync.WaitGroup
	for _, name := range d.preload {
		wg.Add(1)
		go func(name string, fetch TabFetch) {
			defer wg.Done()
			data, err := fetch(ctx, sess)
			results <- outcome{name: name, data: data, err: err}
		}(name, d.fetches[name])
	}
	wg.Wait()
	close(results)

	loaded := make(map[string]any, len(d.preload))
	var firstErr error
	for result := range results {
		if result.err != nil {
			if firstErr == nil || isUnauthorizedErr(result.err) && !isUnauthorizedErr(firstErr) {
				firstErr = result.err
			}
			continue
		}
		loaded[result.name] = result.data
	}

	if firstErr != nil {
		if !isUnauthorizedErr(firstErr) {
			d.notifier.Notify(fmt.Sprintf("failed to load %s", d.title), model.SeverityError)
		}
		return nil, firstErr
	}

	d.mu.Lock()
	for name, data := range loaded {
		d.cache[name] = data
	}
	d.mu.Unlock()

	return loaded, nil
}

// Tab returns one tab's data, fetching it on demand the first time. Cached
// results are reused until the view is closed.
func (d *DetailView) Tab(ctx context.Context, sess apiclient.Session, name string) (any, error) {
	d.mu.Lock()
	if data, ok := d.cache[name]; ok {
		d.mu.Unlock()
		return data, nil
	}
	d.mu.Unlock()

	fetch, ok := d.fetches[name]
	if !ok {
		return nil, fmt.Errorf("tab %q: %w", name, model.ErrUnknownView)
	}

	data, err := fetch(ctx, sess)
	if err != nil {
		if !isUnauthorizedErr(err) {
			d.notifier.Notify(fmt.Sprintf("failed to load %s", d.title), model.SeverityError)
		}
		return nil, err
	}

	d.mu.Lock()
	d.cache[name] = data
	d.mu.Unlock()

	return data, nil
}

// Close invalidates the tab cache. Re-opening starts from scratch.
func (d *DetailView) Close() {
	d.mu.Lock()
	d.cache = map[string]any{}
	d.mu.Unlock()
}
