package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// reportTables are the tables backing the report repository.
var reportTables = []string{"day_reports", "month_reports"}

func main() {
	var dsn, out, tables string
	flag.StringVar(&dsn, "dsn", os.Getenv("INCUMBENT_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.StringVar(&tables, "tables", strings.Join(reportTables, ","), "comma separated tables to generate")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or INCUMBENT_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           out,
		ModelPkgPath:      "model",
		Mode:              gen.WithoutContext,
		FieldWithTypeTag:  true,
		FieldNullable:     false,
		FieldWithIndexTag: false,
	})
	g.UseDB(db)
	for _, table := range strings.Split(tables, ",") {
		if table = strings.TrimSpace(table); table != "" {
			g.GenerateModel(table)
		}
	}
	g.Execute()

	fmt.Printf("generated report models for %s at %s\n", tables, out)
}
