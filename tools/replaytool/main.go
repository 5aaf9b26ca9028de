package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/infrastructure/storage"
	"dungeon-kernel/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	logger.Init()
	logger.SetLevel("warn")

	var err error
	switch os.Args[1] {
	case "info":
		err = info(os.Args[2])
	case "actions":
		err = actions(os.Args[2])
	case "verify":
		err = verify(os.Args[2])
	case "journal":
		err = journal(os.Args[2])
	default:
		printHelp()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func info(path string) error {
	s, err := storage.LoadReplay(path)
	if err != nil {
		return err
	}
	fmt.Printf("session:  %s\n", s.ID)
	fmt.Printf("seed:     %d\n", s.Seed)
	fmt.Printf("recorded: %s\n", time.Unix(s.Timestamp, 0).Format(time.RFC3339))
	fmt.Printf("digest:   %x\n", s.Digest)
	fmt.Printf("actions:  %d\n", len(s.Actions))
	fmt.Printf("scenario:\n%s", s.Layout)
	return nil
}

func actions(path string) error {
	s, err := storage.LoadReplay(path)
	if err != nil {
		return err
	}
	for _, a := range s.Actions {
		fmt.Printf("%5d  %-6s %s\n", a.Seq, a.Actor, a.Intent())
	}
	return nil
}

func verify(path string) error {
	s, err := storage.LoadReplay(path)
	if err != nil {
		return err
	}
	g, err := engine.Replay(s)
	if err != nil {
		return err
	}
	fmt.Printf("ok: digest %x after %d actions\n", engine.Digest(g), len(s.Actions))
	return nil
}

func journal(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := storage.ReadJournal(f)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func printHelp() {
	fmt.Println(`Replay Tool - просмотр и проверка записей партий
Commands:
  info <file.cdrp>            - заголовок записи и сценарий
  actions <file.cdrp>         - список действий
  verify <file.cdrp>          - переиграть запись и сверить хеш
  journal <file.jsonl.zst>    - журнал изменений в JSONL`)
}
