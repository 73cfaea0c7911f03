package main

import (
	"github.com/kasuku/academia/storage/database"
)

var runMigrationFunc = database.RunMigrationCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return runMigrationFunc(cli.db, args[0], arguments...)
}
