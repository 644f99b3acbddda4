package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/minnowengine/minnow/pkg/chess"
)

type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, searchParams chess.SearchParams) chess.SearchInfo
}

type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	positions    []chess.Position
	thinking     bool
	engineOutput chan chess.SearchInfo
	cancel       context.CancelFunc
}

func New(name, author, version string, engine Engine, options []Option) *Protocol {
	var initPosition, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		options:   options,
		positions: []chess.Position{initPosition},
	}
}

// Run drives the protocol: one goroutine reads stdin, the loop below
// multiplexes commands with search output so stop keeps working while
// the engine thinks.
func (uci *Protocol) Run(logger *log.Logger) {
	var commands = make(chan string)

	go func() {
		defer close(commands)
		var scanner = bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			var commandLine = scanner.Text()
			if commandLine == "quit" {
				return
			}
			if commandLine != "" {
				commands <- commandLine
			}
		}
	}()

	var searchResult chess.SearchInfo
	for {
		select {
		case si, ok := <-uci.engineOutput:
			if ok {
				fmt.Println(searchInfoToUci(si))
				searchResult = si
			} else {
				if len(searchResult.MainLine) != 0 {
					fmt.Printf("bestmove %v\n", searchResult.MainLine[0])
				} else {
					fmt.Println("bestmove 0000")
				}
				uci.thinking = false
				uci.cancel = nil
				uci.engineOutput = nil
				searchResult = chess.SearchInfo{}
			}
		case commandLine, ok := <-commands:
			if !ok {
				if uci.cancel != nil {
					uci.cancel()
				}
				return
			}
			var err = uci.handle(commandLine)
			if err != nil {
				logger.Println(err)
			}
		}
	}
}

func (uci *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if uci.thinking {
		if commandName == "stop" {
			uci.cancel()
			return nil
		}
		return errors.New("search still running")
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = uci.uciCommand
	case "setoption":
		h = uci.setOptionCommand
	case "isready":
		h = uci.isReadyCommand
	case "position":
		h = uci.positionCommand
	case "go":
		h = uci.goCommand
	case "ucinewgame":
		h = uci.uciNewGameCommand
	case "stop":
		return nil
	}

	if h == nil {
		return errors.New("command not found")
	}

	return h(fields)
}

func (uci *Protocol) uciCommand(fields []string) error {
	fmt.Printf("id name %s %s\n", uci.name, uci.version)
	fmt.Printf("id author %s\n", uci.author)
	for i := range uci.options {
		fmt.Println(uci.options[i].uciString())
	}
	fmt.Println("uciok")
	return nil
}

// setoption name <id> [value <x>]; option names may contain spaces.
func (uci *Protocol) setOptionCommand(fields []string) error {
	if len(fields) < 2 || fields[0] != "name" {
		return errors.New("invalid setoption arguments")
	}
	var name, value string
	var valueIndex = findIndexString(fields, "value")
	if valueIndex == -1 {
		name = strings.Join(fields[1:], " ")
	} else {
		name = strings.Join(fields[1:valueIndex], " ")
		value = strings.Join(fields[valueIndex+1:], " ")
	}
	for i := range uci.options {
		var option = &uci.options[i]
		if strings.EqualFold(option.name, name) {
			return option.set(value)
		}
	}
	return errors.New("unhandled option")
}

func (uci *Protocol) isReadyCommand(fields []string) error {
	uci.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (uci *Protocol) positionCommand(fields []string) error {
	var args = fields
	if len(args) == 0 {
		return errors.New("invalid position arguments")
	}
	var fen string
	var movesIndex = findIndexString(args, "moves")
	if args[0] == "startpos" {
		fen = chess.InitialPositionFen
	} else if args[0] == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var p, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []chess.Position{p}
	if movesIndex >= 0 && movesIndex+1 < len(args) {
		for _, smove := range args[movesIndex+1:] {
			var last = positions[len(positions)-1]
			var move = last.ParseMoveLAN(smove)
			if move == chess.MoveEmpty {
				return errors.New("parse move failed")
			}
			var next chess.Position
			if !last.MakeMove(move, &next) {
				return errors.New("parse move failed")
			}
			positions = append(positions, next)
		}
	}
	uci.positions = positions
	return nil
}

func (uci *Protocol) goCommand(fields []string) error {
	var limits = parseLimits(fields, &uci.positions[len(uci.positions)-1])
	var ctx, cancel = context.WithCancel(context.Background())
	uci.cancel = cancel
	uci.thinking = true
	uci.engineOutput = make(chan chess.SearchInfo, 256)
	var output = uci.engineOutput
	go func() {
		var searchResult = uci.engine.Search(ctx, chess.SearchParams{
			Positions: uci.positions,
			Limits:    limits,
			Progress: func(si chess.SearchInfo) {
				select {
				case output <- si:
				default:
				}
			},
		})
		output <- searchResult
		close(output)
	}()
	return nil
}

func (uci *Protocol) uciNewGameCommand(fields []string) error {
	uci.engine.Clear()
	return nil
}

func searchInfoToUci(si chess.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v seldepth %v", si.Depth, si.SelDepth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var nps = si.Nodes * 1000 / (si.Duration + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v hashfull %v",
		si.Nodes, si.Duration, nps, si.HashFull)
	if si.TbHits != 0 {
		fmt.Fprintf(sb, " tbhits %v", si.TbHits)
	}
	if len(si.MainLine) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string, p *chess.Position) (result chess.LimitsType) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime":
			result.WhiteTime, _ = strconv.Atoi(args[i+1])
			i++
		case "btime":
			result.BlackTime, _ = strconv.Atoi(args[i+1])
			i++
		case "winc":
			result.WhiteIncrement, _ = strconv.Atoi(args[i+1])
			i++
		case "binc":
			result.BlackIncrement, _ = strconv.Atoi(args[i+1])
			i++
		case "movestogo":
			result.MovesToGo, _ = strconv.Atoi(args[i+1])
			i++
		case "depth":
			result.Depth, _ = strconv.Atoi(args[i+1])
			i++
		case "nodes":
			var nodes, _ = strconv.Atoi(args[i+1])
			result.Nodes = int64(nodes)
			i++
		case "movetime":
			result.MoveTime, _ = strconv.Atoi(args[i+1])
			i++
		case "infinite":
			result.Infinite = true
		case "searchmoves":
			for i+1 < len(args) {
				var move = p.ParseMoveLAN(args[i+1])
				if move == chess.MoveEmpty {
					break
				}
				result.SearchMoves = append(result.SearchMoves, move)
				i++
			}
		}
	}
	return
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
