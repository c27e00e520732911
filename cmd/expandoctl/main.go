/*
Expandoctl is an interactive REPL for trying out expando format strings
against the bundled sample field table.

Usage:

	expandoctl [flags]

The flags are:

	-v, --version
		Print the current version and exit.

	-c, --config FILE
		Load a TOML config file overriding the sample data record rendered
		against (see internal/samplefields.Data for the fields available).

	-w, --width COLS
		Render with a column budget instead of unbounded width. 0 (the
		default) means unbounded.

	-s, --serve ADDR
		Instead of starting the REPL, run the HTTP preview/preset service on
		ADDR (e.g. ":8080") using an in-memory preset store.

Once started, each line typed is treated as a format string and rendered
immediately against the sample data. Type "QUIT" to exit.
*/
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/expando"
	"github.com/dekarrin/expando/internal/samplefields"
	"github.com/dekarrin/expando/internal/util"
	"github.com/dekarrin/expando/internal/version"
	"github.com/dekarrin/expando/previewsrv"
	"github.com/dekarrin/expando/previewsrv/dao/inmem"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitConfigError
	ExitREPLError
	ExitServerError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Print the current version and exit")
	configFile  = pflag.StringP("config", "c", "", "A TOML file overriding the sample data record")
	maxCols     = pflag.IntP("width", "w", 0, "Column budget for rendering; 0 means unbounded")
	serveAddr   = pflag.StringP("serve", "s", "", "Run the HTTP preview/preset service on this address instead of the REPL")
)

// sampleConfig is the shape of the optional TOML config file: a subset of
// samplefields.Data's fields that the user may wish to override.
type sampleConfig struct {
	Subject string `toml:"subject"`
	From    string `toml:"from"`
	Size    int64  `toml:"size"`
	Flagged bool   `toml:"flagged"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	data := samplefields.Sample()
	if *configFile != "" {
		var cfg sampleConfig
		raw, err := os.ReadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitConfigError
			return
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitConfigError
			return
		}
		data.Subject = cfg.Subject
		data.From = cfg.From
		data.Size = cfg.Size
		data.Flagged = cfg.Flagged
	}

	defs := samplefields.Definitions()
	cb := samplefields.Callbacks()

	if *serveAddr != "" {
		if err := runServer(*serveAddr, defs, cb, data); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitServerError
		}
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "expando> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline config: %s\n", err.Error())
		returnCode = ExitREPLError
		return
	}
	defer rl.Close()

	fmt.Printf("Available codes: %s\n", codeList(defs))

	if err := runREPL(rl, defs, cb, data, *maxCols); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitREPLError
	}
}

// runServer starts the preview/preset HTTP service, bound to an in-memory
// preset store and a freshly generated admin account. The admin password
// and JWT signing secret are also generated fresh on every start; the
// password is printed once to stderr so an operator can retrieve it, and the
// secret is not printed.
func runServer(addr string, defs *expando.DefinitionTable, cb *expando.CallbackTable, data samplefields.Data) error {
	adminID, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate admin ID: %w", err)
	}
	secret, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate JWT secret: %w", err)
	}
	password, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate admin password: %w", err)
	}

	svc, err := previewsrv.New(previewsrv.Config{
		Store:         inmem.New(),
		Defs:          defs,
		CB:            cb,
		Sample:        data,
		JWTSecret:     []byte(secret.String()),
		AdminID:       adminID,
		AdminPassword: password.String(),
		UnauthedDelay: 250 * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("start preview service: %w", err)
	}

	fmt.Fprintf(os.Stderr, "admin password: %s\n", password.String())
	log.Printf("expandoctl preview service listening on %s", addr)
	return http.ListenAndServe(addr, svc.Router())
}

// codeList builds a friendly, Oxford-comma-joined summary of every code
// registered in defs, for the REPL's startup banner.
func codeList(defs *expando.DefinitionTable) string {
	all := defs.Definitions()
	names := make([]string, 0, len(all))
	for _, d := range all {
		names = append(names, "%"+d.ShortName)
	}
	return util.MakeTextList(names)
}

func runREPL(rl *readline.Instance, defs *expando.DefinitionTable, cb *expando.CallbackTable, data samplefields.Data, width int) error {
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		if line == "QUIT" {
			return nil
		}
		if line == "" {
			continue
		}

		e, err := expando.Parse(line, defs)
		if err != nil {
			if pe, ok := err.(expando.ParseError); ok {
				fmt.Println(pe.FullMessage())
			} else {
				fmt.Println(err.Error())
			}
			continue
		}

		var buf strings.Builder
		if width > 0 {
			e.RenderMax(&buf, cb, data, 0, width)
		} else {
			e.Render(&buf, cb, data, 0)
		}
		fmt.Println(buf.String())
		e.Free()
	}
}
