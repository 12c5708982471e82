package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/benbeisheim/chessrules-backend/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := chess(); err != nil {
		logrus.Fatal(err)
	}
}

func chess() error {
	root := cli.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
