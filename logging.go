package allocbench

import "fmt"

type Logger interface {
	Warnf(format string, v ...interface{})

	Errorf(format string, v ...interface{})

	Fatalf(format string, v ...interface{})

	Infof(format string, v ...interface{})

	Debugf(format string, v ...interface{})

	Tracef(format string, v ...interface{})
}

type defaultLogger struct {
}

func (*defaultLogger) Fatalf(f string, v ...interface{}) {
	fmt.Printf(f+"\n", v...)
}

func (*defaultLogger) Errorf(f string, v ...interface{}) {
	fmt.Printf(f+"\n", v...)
}

func (*defaultLogger) Warnf(f string, v ...interface{}) {
	fmt.Printf(f+"\n", v...)
}

func (*defaultLogger) Infof(f string, v ...interface{}) {
	fmt.Printf(f+"\n", v...)
}

func (*defaultLogger) Debugf(f string, v ...interface{}) {
}

func (*defaultLogger) Tracef(f string, v ...interface{}) {
}
