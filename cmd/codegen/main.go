package main

import (
	"context"
	"fmt"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/delaneyj/reactivity/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	pkgKey    = "pkg"
	typeKey   = "type"
	fieldsKey = "fields"
	outKey    = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate a typed view over a reactive object",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     pkgKey,
				Usage:    "Package of the generated file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     typeKey,
				Usage:    "Name of the generated view type",
				Required: true,
			},
			&cli.StringFlag{
				Name:     fieldsKey,
				Usage:    "Comma separated key:type pairs, e.g. title:string,done:bool",
				Required: true,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Output file, stdout when empty",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for %s started !", cmd.String(typeKey))
	defer func() {
		log.Printf("Codegen for %s finished in %v", cmd.String(typeKey), time.Since(start))
	}()

	contents, err := render(cmd.String(pkgKey), cmd.String(typeKey), cmd.String(fieldsKey))
	if err != nil {
		return err
	}

	out := cmd.String(outKey)
	if out == "" {
		_, err := os.Stdout.Write(contents)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	return os.WriteFile(out, contents, 0644)
}

func render(pkg, typeName, fieldList string) ([]byte, error) {
	fields, err := templates.ParseFields(fieldList)
	if err != nil {
		return nil, err
	}
	src := templates.ViewGen(&templates.ViewArgs{
		Package: pkg,
		Type:    typeName,
		Fields:  fields,
	})
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("format generated %s: %w", typeName, err)
	}
	return formatted, nil
}
