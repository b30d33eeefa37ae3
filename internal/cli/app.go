// Package cli is the interactive front end. Every menu entry maps to one
// authorization action, and the menu only lists what the signed-in role is
// offered; the services re-check every request.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/service"
)

// Services bundles what the CLI drives.
type Services struct {
	Engine        *authz.Engine
	Sessions      *service.SessionManager
	Clients       *service.ClientService
	Contracts     *service.ContractService
	Events        *service.EventService
	Collaborators *service.CollaboratorService
}

// App runs commands and the menu loop against one session.
type App struct {
	svc Services
	p   *Prompter
	log zerolog.Logger
	sc  *service.SessionContext
}

func New(svc Services, p *Prompter, log zerolog.Logger) *App {
	return &App{svc: svc, p: p, log: log, sc: service.NewSessionContext()}
}

// Commands lists the top-level commands Execute accepts.
var Commands = []string{"menu", "login", "logout", "signup", "whoami"}

// Execute runs one top-level command. An empty args runs the menu.
func (a *App) Execute(ctx context.Context, args []string) error {
	cmd := "menu"
	if len(args) > 0 {
		cmd = args[0]
	}
	var err error
	switch cmd {
	case "menu":
		return a.Run(ctx)
	case "login":
		err = a.login(ctx)
	case "logout":
		err = a.logout(ctx)
	case "signup":
		err = a.signup(ctx)
	case "whoami":
		err = a.whoami(ctx)
	default:
		return fmt.Errorf("unknown command %q (want one of %s)", cmd, strings.Join(Commands, ", "))
	}
	if err != nil {
		a.p.Printf("%s\n", resolveError(err, a.log))
	}
	return err
}

// Run signs in if needed, then loops over the menu until the operator quits
// or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := a.svc.Sessions.Resume(ctx, a.sc); err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				a.p.Printf("%s\n", resolveError(err, a.log))
			}
			if err := a.login(ctx); err != nil {
				if errors.Is(err, ErrInputClosed) {
					return nil
				}
				a.p.Printf("%s\n", resolveError(err, a.log))
				continue
			}
		}

		quit, err := a.menu(ctx)
		switch {
		case errors.Is(err, ErrInputClosed):
			return nil
		case err != nil:
			a.p.Printf("%s\n", resolveError(err, a.log))
		case quit:
			return nil
		}
	}
}

// menu shows the offered entries and runs the chosen one. It reports quit
// when the operator leaves.
func (a *App) menu(ctx context.Context) (bool, error) {
	id := a.sc.Identity()
	offered := a.entries(id.Role)

	a.p.Printf("\n%s (%s)\n", id.FullName, id.Role)
	for i, e := range offered {
		a.p.Printf("%2d) %s\n", i+1, e.label)
	}
	a.p.Printf(" l) Log out\n q) Quit\n")

	choice, err := a.p.Line("Choice")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(choice) {
	case "q":
		return true, nil
	case "l":
		return false, a.logout(ctx)
	case "":
		return false, nil
	}

	n, err := parseInt(choice)
	if err != nil || n < 1 || n > len(offered) {
		a.p.Printf("Unknown choice %q.\n", choice)
		return false, nil
	}
	entry := offered[n-1]
	a.log.Debug().Str("action", entry.action.String()).Msg("menu entry selected")
	return false, entry.run(ctx)
}

func (a *App) login(ctx context.Context) error {
	email, err := a.p.Line("Email")
	if err != nil {
		return err
	}
	password, err := a.p.Password("Password")
	if err != nil {
		return err
	}
	user, err := a.svc.Sessions.Login(ctx, a.sc, email, password)
	if err != nil {
		return err
	}
	a.p.Printf("Welcome, %s.\n", user.FullName)
	return nil
}

func (a *App) logout(ctx context.Context) error {
	if err := a.svc.Sessions.Logout(ctx, a.sc); err != nil {
		return err
	}
	a.p.Printf("Logged out.\n")
	return nil
}

func (a *App) whoami(ctx context.Context) error {
	if err := a.svc.Sessions.Resume(ctx, a.sc); err != nil {
		return err
	}
	id := a.sc.Identity()
	a.p.Printf("%s <%s> (%s), session expires %s\n",
		id.FullName, id.Email, id.Role, formatTime(a.sc.Claim().ExpiresAt))
	return nil
}
