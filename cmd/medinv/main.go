// Package main provides the medinv CLI, a thin front-end over the client
// SDK. It plays the renderer role: it only ever sees non-throwing results
// and prints their messages.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/medinventory/medinv/internal/api"
	"github.com/medinventory/medinv/internal/equipment"
	"github.com/medinventory/medinv/internal/session"
)

const usage = `usage: medinv [-base URL] [-v] <command> [options]

session commands:
  login    -u <identifier> -p <password>
  logout
  signup   -n <nome> -u <username> -e <email> -p <password> [-t <tipo>]
  me
  verify
  update-profile  [-n <nome>] [-u <username>] [-e <email>] [-p <password>]
  delete-account

equipment commands:
  list     [-nome <substring>] [-status <STATUS>] [-all]
  create   -nome <nome> -tipo <tipo> [-fabricante F] [-modelo M] [-serie S] [-setor S] [-aquisicao YYYY-MM-DD]
  get      <id>
  update   <id> [same flags as create]
  set-status <id> <STATUS>
  delete   <id>
`

type app struct {
	session   *session.Manager
	equipment *equipment.Client
	out       *json.Encoder
}

func main() {
	baseURL := flag.String("base", "", "server base URL (overrides config)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	bearer := api.NewBearer()
	client := api.NewClient(api.Config{
		BaseURL: *baseURL,
		Token:   bearer,
		Logger:  log,
	})

	manager := session.NewManager(session.Config{
		API:    client,
		Bearer: bearer,
		Logger: log,
	})

	a := &app{
		session: manager,
		equipment: equipment.NewClient(equipment.Config{
			API:      client,
			Identity: manager,
			Logger:   log,
		}),
		out: json.NewEncoder(os.Stdout),
	}
	a.out.SetIndent("", "  ")

	ctx := context.Background()

	// Cold-start gate: resolve any stored session before running commands.
	manager.Restore(ctx)

	if err := a.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("logged out")
		return nil
	case "signup":
		return a.signup(ctx, args)
	case "me":
		return a.me()
	case "verify":
		if err := a.session.Verify(ctx); err != nil {
			return fmt.Errorf("session invalid: %s", api.ErrorMessage(err))
		}
		fmt.Println("session valid")
		return nil
	case "update-profile":
		return a.updateProfile(ctx, args)
	case "delete-account":
		return a.resultOf(a.session.DeleteAccount(ctx))
	case "list":
		return a.list(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "set-status":
		return a.setStatus(ctx, args)
	case "delete":
		return a.deleteEquipment(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	identifier := fs.String("u", "", "username or email")
	password := fs.String("p", "", "password")
	fs.Parse(args)

	return a.resultOf(a.session.Login(ctx, *identifier, *password))
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	nome := fs.String("n", "", "full name")
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	tipo := fs.String("t", "", "account type")
	fs.Parse(args)

	return a.resultOf(a.session.Signup(ctx, session.SignupParams{
		Nome:     *nome,
		Username: *username,
		Email:    *email,
		Password: *password,
		Tipo:     *tipo,
	}))
}

func (a *app) me() error {
	user := a.session.CurrentUser()
	if user == nil {
		return fmt.Errorf("not logged in")
	}
	return a.out.Encode(user)
}

func (a *app) updateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	nome := fs.String("n", "", "full name")
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	fs.Parse(args)

	return a.resultOf(a.session.UpdateProfile(ctx, session.ProfileUpdate{
		Nome:     *nome,
		Username: *username,
		Email:    *email,
		Password: *password,
	}))
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	nome := fs.String("nome", "", "filter by name substring")
	status := fs.String("status", "", "filter by operational status")
	all := fs.Bool("all", false, "keep loading until the last page")
	fs.Parse(args)

	list := equipment.NewList(a.equipment, equipment.DefaultPageSize)
	if err := list.ApplyFilters(ctx, equipment.Filters{
		Nome:   *nome,
		Status: equipment.Status(*status),
	}); err != nil {
		return err
	}
	for *all && list.HasMore() {
		if err := list.LoadMore(ctx); err != nil {
			return err
		}
	}

	for _, eq := range list.Items() {
		fmt.Printf("%s  %-20s %s\n", eq.ID, eq.StatusOperacional.Label(), eq.Nome)
	}
	if list.HasMore() {
		fmt.Println("(more pages available, use -all)")
	}
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	eq := equipment.Equipment{}
	fs.StringVar(&eq.Nome, "nome", "", "equipment name")
	fs.StringVar(&eq.Tipo, "tipo", "", "equipment type")
	fs.StringVar(&eq.Fabricante, "fabricante", "", "manufacturer")
	fs.StringVar(&eq.Modelo, "modelo", "", "model")
	fs.StringVar(&eq.NumeroSerie, "serie", "", "serial number")
	fs.StringVar(&eq.SetorAtual, "setor", "", "current sector")
	fs.StringVar(&eq.DataAquisicao, "aquisicao", "", "acquisition date")
	fs.Parse(args)

	if eq.Nome == "" || eq.Tipo == "" {
		return fmt.Errorf("create: -nome and -tipo are required")
	}

	created, err := a.equipment.Create(ctx, eq)
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err))
	}
	return a.out.Encode(created)
}

func (a *app) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("get: expected <id>")
	}
	eq, err := a.equipment.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err))
	}
	return a.out.Encode(eq)
}

func (a *app) update(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("update: expected <id>")
	}
	id := args[0]

	fs := flag.NewFlagSet("update", flag.ExitOnError)
	eq := equipment.Equipment{}
	fs.StringVar(&eq.Nome, "nome", "", "equipment name")
	fs.StringVar(&eq.Tipo, "tipo", "", "equipment type")
	fs.StringVar(&eq.Fabricante, "fabricante", "", "manufacturer")
	fs.StringVar(&eq.Modelo, "modelo", "", "model")
	fs.StringVar(&eq.NumeroSerie, "serie", "", "serial number")
	fs.StringVar(&eq.SetorAtual, "setor", "", "current sector")
	fs.StringVar(&eq.DataAquisicao, "aquisicao", "", "acquisition date")
	fs.Parse(args[1:])

	updated, err := a.equipment.Update(ctx, id, eq)
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err))
	}
	return a.out.Encode(updated)
}

func (a *app) setStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("set-status: expected <id> <STATUS>")
	}
	updated, err := a.equipment.UpdateStatus(ctx, args[0], equipment.Status(args[1]))
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err))
	}
	return a.out.Encode(updated)
}

func (a *app) deleteEquipment(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete: expected <id>")
	}
	if err := a.equipment.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err))
	}
	fmt.Println("deleted")
	return nil
}

func (a *app) resultOf(res session.Result) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Err)
	}
	if res.User != nil {
		return a.out.Encode(res.User)
	}
	fmt.Println("ok")
	return nil
}
