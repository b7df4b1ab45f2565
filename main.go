package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hakrichTech/bindIt/framework/app"
	"github.com/hakrichTech/bindIt/framework/container"
)

// ── Demo services ─────────────────────────────────────────────────────────────

type Greeter interface{ Greet(name string) string }

type englishGreeter struct{ Punctuation string }

func (g englishGreeter) Greet(name string) string { return "Hello, " + name + g.Punctuation }

type Welcome struct {
	Greeter Greeter
	Name    string
}

func NewWelcome(g Greeter, name string) *Welcome { return &Welcome{Greeter: g, Name: name} }

func (w *Welcome) String() string { return w.Greeter.Greet(w.Name) }

// AppServiceProvider wires the demo services.
type AppServiceProvider struct{ container.BaseProvider }

func (p *AppServiceProvider) Register(a *container.Container) error {
	if err := a.Singleton(container.Key[Greeter](), func() any {
		return englishGreeter{Punctuation: "!"}
	}); err != nil {
		return err
	}
	_, err := a.Provide(NewWelcome, container.ParamNames("greeter", "name"))
	if err != nil {
		return err
	}
	a.When(container.Key[Welcome]()).Needs("$name").GiveConfig("app.name", "World")
	return nil
}

func (p *AppServiceProvider) Boot(a *container.Container) error {
	welcome, err := container.ResolveType[*Welcome](a)
	if err != nil {
		return err
	}
	a.Logger().Info("Welcome", zap.String("message", welcome.String()))
	return nil
}

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := application.Register(&AppServiceProvider{}); err != nil {
		application.Logger().Fatal("register", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// GET /bindings lists everything registered above.
	if err := application.Run(ctx); err != nil {
		application.Logger().Fatal("server error", zap.Error(err))
	}
}
