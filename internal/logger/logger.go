package logger

import (
	"go.uber.org/zap"
)

// New создаёт SugaredLogger: консольный в режиме разработки, JSON в production
func New(development bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// Nop возвращает логгер, который ничего не пишет. Используется в тестах.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
