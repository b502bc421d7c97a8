package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"xtor/internal/config"
	"xtor/internal/directory"
	"xtor/internal/feedapi"
	"xtor/internal/logging"
	"xtor/internal/player"
	"xtor/internal/services"
	"xtor/internal/storage"
)

// playerExecutor overrides how the player process is launched (tests only).
var playerExecutor player.Executor

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger

	store storage.Store
	dir   *directory.Directory
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = resolved
		c.configExists = exists
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// openDirectory opens storage and restores the feed list once per invocation.
func (c *commandContext) openDirectory(ctx context.Context) (*directory.Directory, error) {
	if c.dir != nil {
		return c.dir, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.loggerValue()
	store, err := storage.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	client := feedapi.New(
		feedapi.WithTimeout(time.Duration(cfg.Feeds.RequestTimeout)*time.Second),
		feedapi.WithUserAgent(cfg.Feeds.UserAgent),
		feedapi.WithLogger(logger),
	)
	dir := directory.New(client, store,
		directory.WithLogger(logger),
		directory.WithStorageKey(cfg.Storage.Key),
		directory.WithDefaultFeedURL(cfg.Feeds.DefaultURL),
	)
	dir.LoadFeeds(withRequestID(ctx))
	c.store = store
	c.dir = dir
	return dir, nil
}

func (c *commandContext) player() (*player.Player, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return player.New(cfg.Player.Command, cfg.Player.Args,
		player.WithExecutor(playerExecutor),
		player.WithLogger(c.loggerValue()))
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.dir = nil
	return err
}

// withRequestID tags ctx with a fresh correlation ID for one user action.
func withRequestID(ctx context.Context) context.Context {
	return services.WithRequestID(ctx, uuid.NewString())
}

// resolveFeed finds a feed by index or URL. An empty selector means the
// active feed, or the first one.
func resolveFeed(dir *directory.Directory, selector string) (directory.Feed, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		if active := dir.ActiveFeed(); active != nil {
			return *active, nil
		}
		if feed, ok := dir.FeedAt(0); ok {
			return feed, nil
		}
		return directory.Feed{}, errors.New("no feeds subscribed; add one with `xtor feeds add <url>`")
	}
	if index, err := strconv.Atoi(selector); err == nil {
		feed, ok := dir.FeedAt(index)
		if !ok {
			return directory.Feed{}, services.Wrap(services.ErrInvalidInput, "cli", "resolve feed",
				fmt.Sprintf("no feed at index %d (have %d)", index, len(dir.Feeds())), nil)
		}
		return feed, nil
	}
	for _, feed := range dir.Feeds() {
		if feed.URL == selector {
			return feed, nil
		}
	}
	return directory.Feed{}, services.Wrap(services.ErrInvalidInput, "cli", "resolve feed",
		fmt.Sprintf("feed %s is not subscribed", selector), nil)
}

// selectFeed makes feed active. A failed manifest refresh is reported as a
// warning; the cached manifest stays in use.
func selectFeed(ctx context.Context, cmd *cobra.Command, dir *directory.Directory, feed directory.Feed) error {
	err := dir.SwitchFeed(ctx, feed)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrInvalidInput):
		return err
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not refresh manifest for %s: %v\n", feed.URL, err)
		return nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
