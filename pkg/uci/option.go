package uci

import (
	"fmt"
	"strconv"
)

const (
	optionSpin = iota
	optionCheck
	optionButton
)

// Option binds one UCI-visible setting to engine state. Spin and check
// options write through a pointer when set; a button option runs an
// action instead of carrying a value.
type Option struct {
	name      string
	kind      int
	min, max  int
	intValue  *int
	boolValue *bool
	action    func()
}

func SpinOption(name string, value *int, min, max int) Option {
	return Option{name: name, kind: optionSpin, min: min, max: max, intValue: value}
}

func CheckOption(name string, value *bool) Option {
	return Option{name: name, kind: optionCheck, boolValue: value}
}

func ButtonOption(name string, action func()) Option {
	return Option{name: name, kind: optionButton, action: action}
}

func (o *Option) uciString() string {
	switch o.kind {
	case optionSpin:
		return fmt.Sprintf("option name %s type spin default %d min %d max %d",
			o.name, *o.intValue, o.min, o.max)
	case optionCheck:
		return fmt.Sprintf("option name %s type check default %v",
			o.name, *o.boolValue)
	default:
		return fmt.Sprintf("option name %s type button", o.name)
	}
}

func (o *Option) set(value string) error {
	switch o.kind {
	case optionSpin:
		var v, err = strconv.Atoi(value)
		if err != nil {
			return err
		}
		if v < o.min || v > o.max {
			return fmt.Errorf("option %s: %d out of range [%d, %d]",
				o.name, v, o.min, o.max)
		}
		*o.intValue = v
	case optionCheck:
		var v, err = strconv.ParseBool(value)
		if err != nil {
			return err
		}
		*o.boolValue = v
	default:
		o.action()
	}
	return nil
}
