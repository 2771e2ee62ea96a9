package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ThomasStivers/portfolio"
)

// configCmd holds the flags for the 'config' subcommand.
type configCmd struct {
	server     string
	port       int
	user       string
	password   string
	sender     string
	recipients string
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "show or change the email configuration" }
func (*configCmd) Usage() string {
	return `pf config [-smtp-server <host>] [-smtp-port <port>] [-smtp-user <user>]
          [-smtp-password <password>] [-sender <addr>] [-recipients <a,b,c>]

  Without flags, prints the current configuration (password redacted). With
  flags, updates the named fields and saves the configuration to the
  portfolio folder.
`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.server, "smtp-server", "", "SMTP server host")
	f.IntVar(&c.port, "smtp-port", 0, "SMTP server port")
	f.StringVar(&c.user, "smtp-user", "", "SMTP login user")
	f.StringVar(&c.password, "smtp-password", "", "SMTP login password")
	f.StringVar(&c.sender, "sender", "", "Report sender address")
	f.StringVar(&c.recipients, "recipients", "", "Comma-separated report recipients")
}

func (c *configCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := portfolio.LoadConfig(*portfolioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	changed := false
	if c.server != "" {
		cfg.Email.SMTPServer = c.server
		changed = true
	}
	if c.port != 0 {
		cfg.Email.SMTPPort = c.port
		changed = true
	}
	if c.user != "" {
		cfg.Email.SMTPUser = c.user
		changed = true
	}
	if c.password != "" {
		cfg.Email.SMTPPassword = c.password
		changed = true
	}
	if c.sender != "" {
		cfg.Email.Sender = c.sender
		changed = true
	}
	if c.recipients != "" {
		cfg.Email.Recipients = nil
		for _, r := range strings.Split(c.recipients, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Email.Recipients = append(cfg.Email.Recipients, r)
			}
		}
		changed = true
	}

	if changed {
		if err := cfg.Save(*portfolioPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Configuration saved.")
		return subcommands.ExitSuccess
	}

	fmt.Printf("smtp_server: %s\n", cfg.Email.SMTPServer)
	fmt.Printf("smtp_port: %d\n", cfg.Email.SMTPPort)
	fmt.Printf("smtp_user: %s\n", cfg.Email.SMTPUser)
	if cfg.Email.SMTPPassword != "" {
		fmt.Println("smtp_password: ********")
	} else {
		fmt.Println("smtp_password:")
	}
	fmt.Printf("sender: %s\n", cfg.Email.Sender)
	fmt.Printf("recipients: %s\n", strings.Join(cfg.Email.Recipients, ", "))
	if err := cfg.Email.Validate(); err != nil {
		fmt.Printf("Email is not ready: %v\n", err)
	}
	return subcommands.ExitSuccess
}
