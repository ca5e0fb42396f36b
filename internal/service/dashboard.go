package service

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/target/dashboard-client/internal/clock"
	apperrors "github.com/target/dashboard-client/internal/errors"
)

// DefaultFooterAuthor is credited in the footer when none is configured.
const DefaultFooterAuthor = "Group 06"

// Role labels shown under the username in the user dropdown.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// UserMenu is what the user dropdown renders.
type UserMenu struct {
	Username  string
	Role      string
	AvatarURL string
	Err       error
}

// AccountPanel is what the account settings tab renders.
type AccountPanel struct {
	AvatarURL string
	Err       error
}

// Layout is the chrome around every dashboard page.
type Layout struct {
	Menu    UserMenu
	Account AccountPanel
	Footer  string
}

// DashboardOptions groups dependencies for Dashboard.
type DashboardOptions struct {
	Profiles     *ProfileService
	Clock        clock.Clock
	FooterAuthor string
}

// Dashboard assembles the layout shared by the dashboard pages.
type Dashboard struct {
	profiles *ProfileService
	clock    clock.Clock
	author   string
}

// NewDashboard constructs a Dashboard.
func NewDashboard(opts DashboardOptions) *Dashboard {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	author := opts.FooterAuthor
	if author == "" {
		author = DefaultFooterAuthor
	}
	return &Dashboard{profiles: opts.Profiles, clock: clk, author: author}
}

// Mount loads the user dropdown and the account panel side by side, each
// with its own profile load. Loads for the same user share one request.
// Only cancellation fails the mount.
func (d *Dashboard) Mount(ctx context.Context) (Layout, error) {
	var (
		menu    ProfileResult
		account ProfileResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		menu = d.profiles.Load(gctx)
		return canceled(menu.Err)
	})
	g.Go(func() error {
		account = d.profiles.Load(gctx)
		return canceled(account.Err)
	})
	if err := g.Wait(); err != nil {
		return Layout{}, fmt.Errorf("mount dashboard: %w", err)
	}

	return Layout{
		Menu: UserMenu{
			Username:  menu.Username,
			Role:      RoleFor(menu.Username),
			AvatarURL: menu.AvatarURL,
			Err:       menu.Err,
		},
		Account: AccountPanel{AvatarURL: account.AvatarURL, Err: account.Err},
		Footer:  d.Footer(),
	}, nil
}

// canceled keeps only cancellation; other load failures degrade to defaults.
func canceled(err error) error {
	if apperrors.IsCanceled(err) {
		return err
	}
	return nil
}

// Footer renders the footer credit line for the current year.
func (d *Dashboard) Footer() string {
	return FooterText(d.clock.Now().Year(), d.author)
}

// FooterText renders the footer credit line.
func FooterText(year int, author string) string {
	return "© " + strconv.Itoa(year) + ", Made with ❤️ by " + author
}

// RoleFor returns the role label displayed for username.
func RoleFor(username string) string {
	if username == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
