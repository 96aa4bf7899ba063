package hashpress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

const (
	MessageLoadFailed       = "Error loading site content. Please try again later."
	MessageNavigationFailed = "Error initializing site navigation. Please try again later."
)

// App wires a post store, a dispatcher and a renderer into one blog session.
type App struct {
	store      *Store
	loader     Loader
	renderer   Renderer
	dispatcher *Dispatcher
	logger     *slog.Logger
	opts       Options
	mu         sync.Mutex
}

// Options is a struct for configuring a new App.
type Options struct {
	Loader          Loader                           // Loader supplies the posts. Required.
	Renderer        Renderer                         // Renderer draws the page. Navigation fails to start without one.
	Logger          *slog.Logger                     // Logger is the logger used by the App. Default is a debug logger to stderr.
	PageSize        int                              // PageSize of listings. Default is DefaultPageSize; negative disables pagination.
	RecentCount     int                              // RecentCount is the size of the recent posts widget. Default is DefaultRecentCount.
	Nav             []NavLink                        // Nav is the main navigation.
	StaticPages     map[StaticPageName]StaticContent // StaticPages are the bodies of the static pages.
	Searcher        Searcher                         // Searcher handles search input. Default is TitleSearcher.
	InitialFragment string                           // InitialFragment is rendered by Start. Default is "#".
}

// NewApp creates a new App with the provided options.
func NewApp(opts Options) (*App, error) {
	if opts.Loader == nil {
		return nil, errors.New("a Loader is required")
	}

	if opts.Logger == nil {
		opts.Logger = defaultLogger()
	}

	if opts.Searcher == nil {
		opts.Searcher = TitleSearcher{}
	}

	if opts.InitialFragment == "" {
		opts.InitialFragment = homeFragment
	}

	return &App{
		store:    NewStore(opts.Logger),
		loader:   opts.Loader,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		opts:     opts,
	}, nil
}

// Start loads the content, draws the sidebar, sets up navigation and renders the initial fragment.
// A load failure shows MessageLoadFailed and returns an error wrapping ErrContentLoad; a navigation
// setup failure shows MessageNavigationFailed and returns an error wrapping ErrNavigationSetup.
// Neither is retried.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.load(ctx); err != nil {
		return err
	}

	dispatcher, err := NewDispatcher(a.store, a.renderer, DispatcherOptions{
		PageSize:    a.opts.PageSize,
		Nav:         a.opts.Nav,
		StaticPages: a.opts.StaticPages,
		Searcher:    a.opts.Searcher,
		Logger:      a.logger,
	})
	if err != nil {
		a.logger.Error("navigation setup failed", slog.String("error", err.Error()))
		a.showError(MessageNavigationFailed)
		return err
	}
	a.dispatcher = dispatcher

	return a.dispatcher.Navigate(a.opts.InitialFragment)
}

// Reload reloads the content and renders the current fragment again.
func (a *App) Reload(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dispatcher == nil {
		return fmt.Errorf("%w: app not started", ErrNavigationSetup)
	}

	if err := a.load(ctx); err != nil {
		return err
	}

	return a.dispatcher.Refresh()
}

// Navigate renders the view of fragment.
func (a *App) Navigate(fragment string) error {
	d, err := a.Dispatcher()
	if err != nil {
		return err
	}
	return d.Navigate(fragment)
}

// Dispatcher returns the dispatcher of a started App.
func (a *App) Dispatcher() (*Dispatcher, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dispatcher == nil {
		return nil, fmt.Errorf("%w: app not started", ErrNavigationSetup)
	}
	return a.dispatcher, nil
}

// Store returns the post store of the App.
func (a *App) Store() *Store {
	return a.store
}

func (a *App) load(ctx context.Context) error {
	report, err := a.store.Load(ctx, a.loader)
	if err != nil {
		a.logger.Error("content load failed", slog.String("error", err.Error()))
		a.showError(MessageLoadFailed)
		return err
	}

	for _, skipped := range report.Skipped {
		a.logger.Debug("post skipped", slog.String("source", skipped.SourceID), slog.String("error", skipped.Err.Error()))
	}

	posts := a.store.Posts()
	if indexer, ok := a.opts.Searcher.(Indexer); ok {
		if err := indexer.Rebuild(posts); err != nil {
			// The previous index stays in place; listings are unaffected
			a.logger.Error("search index rebuild failed", slog.String("error", err.Error()))
		}
	}

	if a.renderer != nil {
		if err := a.renderer.RenderSidebar(BuildSidebar(posts, a.opts.RecentCount)); err != nil {
			a.logger.Warn("sidebar render failed", slog.String("error", err.Error()))
		}
	}

	return nil
}

func (a *App) showError(message string) {
	if a.renderer == nil {
		return
	}

	if err := a.renderer.RenderError(message); err != nil {
		a.logger.Warn("error message render failed", slog.String("error", err.Error()))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}))
}
