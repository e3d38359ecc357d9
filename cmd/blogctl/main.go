// Command blogctl manages account levels, which the HTTP API cannot change.
package main

import (
	"blog/internal/config"
	"blog/internal/model"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const usage = `Usage:
  blogctl [-config Blog.toml] promote <username|id>   - grant Admin
  blogctl [-config Blog.toml] demote <username|id>    - revoke Admin
  blogctl [-config Blog.toml] list-admins             - list all admins`

func main() {
	configPath := flag.String("config", "", "path to Blog.toml")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	logrus.SetLevel(logrus.WarnLevel)
	cfg, err := config.ParseConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to parse config")
	}
	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, repo, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}
