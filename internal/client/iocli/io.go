// Package iocli abstracts the terminal the dashsync CLI talks to
package iocli

//go:generate moq -out io_mock.go . IO

// IO терминал CLI: вывод, ввод секретов без эха
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadSecret(prompt string) (string, error)
	IsTerminal() bool
}
