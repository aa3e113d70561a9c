package inarow

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Dispatch runs one of the game's entry points:
//
//	g_create  <type>|<name>|<wager>   returns the game id
//	g_join    <id>
//	g_move    <id>|<row>|<col>
//	g_resign  <id>
//	g_timeout <id>
//	g_get     <id>                    returns the game as JSON
func Dispatch(c *Contract, method, payload string) (*string, error) {
	sender := c.chain.GetEnv().Sender
	in := payload
	switch method {
	case "g_create":
		typ, err := parseU64(nextField(&in))
		if err != nil {
			return nil, err
		}
		name := nextField(&in)
		wager, err := strconv.ParseInt(nextField(&in), 10, 64)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidArgs, "wager")
		}
		if in != "" {
			return nil, errors.Wrap(ErrInvalidArgs, "too many arguments")
		}
		id, err := c.Create(sender, Type(typ), name, wager)
		if err != nil {
			return nil, err
		}
		out := strconv.FormatUint(id, 10)
		return &out, nil
	case "g_move":
		id, err := parseU64(nextField(&in))
		if err != nil {
			return nil, err
		}
		row, err := parseU64(nextField(&in))
		if err != nil {
			return nil, err
		}
		col, err := parseU64(nextField(&in))
		if err != nil {
			return nil, err
		}
		if in != "" {
			return nil, errors.Wrap(ErrInvalidArgs, "too many arguments")
		}
		return nil, c.Move(sender, id, int(row), int(col))
	case "g_join", "g_resign", "g_timeout", "g_get":
		id, err := parseU64(in)
		if err != nil {
			return nil, err
		}
		switch method {
		case "g_join":
			return nil, c.Join(sender, id)
		case "g_resign":
			return nil, c.Resign(sender, id)
		case "g_timeout":
			return nil, c.ClaimTimeout(sender, id)
		}
		return c.view(id)
	}
	return nil, errors.Wrapf(ErrInvalidArgs, "unknown method %q", method)
}

type gameView struct {
	*Game
	Board string `json:"board"`
}

func (c *Contract) view(id uint64) (*string, error) {
	g, err := c.load(id)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(gameView{Game: g, Board: g.board().ascii()})
	if err != nil {
		return nil, err
	}
	out := string(b)
	return &out, nil
}

func nextField(s *string) string {
	f, rest, found := strings.Cut(*s, "|")
	if !found {
		*s = ""
		return f
	}
	*s = rest
	return f
}

func parseU64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgs, "%q", s)
	}
	return v, nil
}
