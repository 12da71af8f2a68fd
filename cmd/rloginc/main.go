/*
 * rlogin: an asynchronous RLOGIN protocol client
 * Copyright 2019-2023 Daniel Selifonov
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"rlogin/internal/rlogin"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	host := ""
	port := 513
	clientUsername := ""
	serverUsername := ""
	termType := os.Getenv("TERM")
	termSpeed := 38400
	escape := "~"
	verbose := false

	flag.StringVar(&host, "host", "", "Target RLOGIN host")
	flag.IntVar(&port, "port", 513, "Target RLOGIN port")
	flag.StringVar(&clientUsername, "l", "", "Client-side username")
	flag.StringVar(&serverUsername, "u", "", "Server-side username (defaults to -l)")
	flag.StringVar(&termType, "term", termType, "Terminal type reported during handshake")
	flag.IntVar(&termSpeed, "speed", 38400, "Terminal speed reported during handshake")
	flag.StringVar(&escape, "e", "~", "Client escape character")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if host == "" || clientUsername == "" {
		flag.Usage()
		os.Exit(2)
	}
	if serverUsername == "" {
		serverUsername = clientUsername
	}
	escapeByte, err := rlogin.SetClientEscapeFromString(escape)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dialer, err := rlogin.NewDialer(rlogin.Options{
		Host:           host,
		Port:           port,
		ClientUsername: clientUsername,
		ServerUsername: serverUsername,
		TerminalType:   termType,
		TerminalSpeed:  termSpeed,
	})
	if err != nil {
		logrus.WithError(err).Fatal("rloginc: invalid options")
	}
	dialer.Properties().SetClientEscape(escapeByte)

	if width, height, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		_ = dialer.Properties().SetColumns(width)
		_ = dialer.Properties().SetRows(height)
	}

	conn, err := dialer.Connect(context.Background(), nil)
	if err != nil {
		logrus.WithError(err).Fatal("rloginc: connect failed")
	}

	runInteractive(conn)
}

// runInteractive puts the local TTY in raw mode for the session's duration,
// pumps stdin to the connection and connection data to stdout, and re-sends
// WCCS on SIGWINCH.
//
// Grounded on abulujayn-persishtent's session client and
// alexandrem-conduit-bmc's sol.go (pack, other_examples): both put the local
// terminal in raw mode around an interactive remote-shell session and
// restore it on exit/detach.
func runInteractive(conn *rlogin.Connection) {
	closed := make(chan struct{})
	conn.OnClose(func() { close(closed) })
	conn.OnData(func(p []byte) { _, _ = os.Stdout.Write(p) })
	conn.OnError(func(err error) { logrus.WithError(err).Error("rloginc: connection error") })

	if term.IsTerminal(int(os.Stdin.Fd())) {
		if oldState, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
			defer func() { _ = term.Restore(int(os.Stdin.Fd()), oldState) }()
		}
	}

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if width, height, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
				_ = conn.SetColumns(width)
				_ = conn.SetRows(height)
				_ = conn.SendWCCS()
			}
		}
	}()

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				if _, werr := conn.Write(buf[:n]); werr != nil {
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					logrus.WithError(err).Error("rloginc: stdin read error")
				}
				conn.Disconnect()
				return
			}
		}
	}()

	<-closed
	signal.Stop(winch)
}
