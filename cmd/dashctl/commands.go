package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/target/dashboard-client/internal/domain/session"
	"github.com/target/dashboard-client/internal/ports"
	"github.com/target/dashboard-client/internal/service"
	"github.com/target/dashboard-client/internal/service/notification"
)

var errSubmissionFailed = errors.New("submission failed")

type loginOptions struct {
	Username      string
	Password      string
	PasswordStdin bool
}

type registerOptions struct {
	loginOptions
	Email string
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func readPassword(opts *loginOptions, stdin io.Reader) error {
	if !opts.PasswordStdin {
		return nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	opts.Password = strings.TrimRight(line, "\r\n")
	return nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	var opts loginOptions
	fs := newFlagSet("login")
	fs.StringVar(&opts.Username, "u", "", "username")
	fs.StringVar(&opts.Password, "p", "", "password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := readPassword(&opts, cmdCtx.Stdin); err != nil {
		return err
	}

	return submit(cmdCtx, "login", session.AnchorTopCenter, func(v *service.View) service.Outcome {
		return cmdCtx.Services.Auth.Login(cmdCtx.Ctx, v, ports.Credentials{
			Username: opts.Username,
			Password: opts.Password,
		})
	})
}

func runRegister(cmdCtx *commandContext, args []string) error {
	var opts registerOptions
	fs := newFlagSet("register")
	fs.StringVar(&opts.Username, "u", "", "username")
	fs.StringVar(&opts.Email, "e", "", "email address")
	fs.StringVar(&opts.Password, "p", "", "password")
	fs.BoolVar(&opts.PasswordStdin, "password-stdin", false, "read the password from stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := readPassword(&opts.loginOptions, cmdCtx.Stdin); err != nil {
		return err
	}

	return submit(cmdCtx, "register", session.AnchorTopCenter, func(v *service.View) service.Outcome {
		return cmdCtx.Services.Auth.Register(cmdCtx.Ctx, v, ports.Registration{
			Username: opts.Username,
			Email:    opts.Email,
			Password: opts.Password,
		})
	})
}

func runUploadAvatar(cmdCtx *commandContext, args []string) error {
	var path string
	fs := newFlagSet("upload-avatar")
	fs.StringVar(&path, "file", "", "path to a JPEG or PNG image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if path == "" {
		return errors.New("upload-avatar: -file is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	contentType, err := detectContentType(f)
	if err != nil {
		return err
	}

	return submit(cmdCtx, "account", session.AnchorTopRight, func(v *service.View) service.Outcome {
		return cmdCtx.Services.Auth.UploadAvatar(cmdCtx.Ctx, v, ports.AvatarUpload{
			FileName:    filepath.Base(path),
			ContentType: contentType,
			Size:        info.Size(),
			Content:     f,
		})
	})
}

func runLogout(cmdCtx *commandContext, args []string) error {
	if err := newFlagSet("logout").Parse(args); err != nil {
		return err
	}
	return submit(cmdCtx, "user-dropdown", session.AnchorTopRight, func(v *service.View) service.Outcome {
		return cmdCtx.Services.Auth.Logout(cmdCtx.Ctx, v)
	})
}

func runProfile(cmdCtx *commandContext, args []string) error {
	if err := newFlagSet("profile").Parse(args); err != nil {
		return err
	}
	res := cmdCtx.Services.Profiles.Load(cmdCtx.Ctx)
	username := res.Username
	if username == "" {
		username = "(not signed in)"
	}
	if err := writef(cmdCtx.Stdout, "username: %s\navatar:   %s\n", username, res.AvatarURL); err != nil {
		return err
	}
	return nil
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	if err := newFlagSet("whoami").Parse(args); err != nil {
		return err
	}
	layout, err := cmdCtx.Services.Dashboard.Mount(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	username := layout.Menu.Username
	if username == "" {
		username = "(not signed in)"
	}
	lines := []string{
		"user:    " + username + " (" + layout.Menu.Role + ")",
		"avatar:  " + layout.Menu.AvatarURL,
		"account: " + layout.Account.AvatarURL,
		"",
		layout.Footer,
	}
	return writef(cmdCtx.Stdout, "%s\n", strings.Join(lines, "\n"))
}

func runFooter(cmdCtx *commandContext, args []string) error {
	if err := newFlagSet("footer").Parse(args); err != nil {
		return err
	}
	return writef(cmdCtx.Stdout, "%s\n", cmdCtx.Services.Dashboard.Footer())
}

// submit mounts a view for one action, waits for its navigation and tears it down.
func submit(cmdCtx *commandContext, name string, anchor session.Anchor, action func(v *service.View) service.Outcome) error {
	router := newTerminalRouter()
	view, err := cmdCtx.Services.NewView(name, anchor, router, notification.SinkRegistration{
		Name: "terminal",
		Sink: &terminalSink{w: cmdCtx.Stdout},
	})
	if err != nil {
		return err
	}
	defer view.Close()

	out := action(view)
	if out.Navigation != nil && cmdCtx.Wait > 0 {
		if nav, ok := router.await(cmdCtx.Ctx, cmdCtx.Wait); ok {
			if werr := writef(cmdCtx.Stdout, "-> %s\n", nav.String()); werr != nil {
				return werr
			}
		}
	}
	if !out.OK() {
		return fmt.Errorf("%s: %w: %w", name, errSubmissionFailed, out.Err)
	}
	return nil
}

// detectContentType sniffs the first bytes and rewinds the file.
func detectContentType(f *os.File) (string, error) {
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read image: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind image: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(f.Name())); byExt != "" {
			contentType = byExt
		}
	}
	return contentType, nil
}
