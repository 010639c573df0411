package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asgeY/poet/pkg/adapters/memory"
	"github.com/asgeY/poet/pkg/domain"
	"github.com/asgeY/poet/pkg/screen"
	"github.com/asgeY/poet/pkg/screens/retail"
)

func newTerminal(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(strings.NewReader(input), &out), &out
}

func TestRunCountdown(t *testing.T) {
	term, out := newTerminal("")

	err := RunCountdown(context.Background(), term, 2, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n0\n>>> Dismissed.\n", out.String())
}

func TestRunCountdown_Cancelled(t *testing.T) {
	term, _ := newTerminal("")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := RunCountdown(ctx, term, 3, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunLogin(t *testing.T) {
	auth := memory.NewAuthenticator(map[string]string{"postman": "password"})
	term, out := newTerminal("bob\nshort\npostman\npassword\n")

	err := RunLogin(context.Background(), term, auth)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usernames need 5 characters and passwords 8.")
	assert.Contains(t, out.String(), ">>> Signing in...")
	assert.Contains(t, out.String(), "Login Succeeded!")
	assert.Contains(t, out.String(), "Authenticated: true")
}

func TestRunLogin_FailureThenEndOfInput(t *testing.T) {
	auth := memory.NewAuthenticator(map[string]string{"postman": "password"})
	term, out := newTerminal("postman\nwrong-password\n")

	err := RunLogin(context.Background(), term, auth)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, HandleExecutionError(err))
	assert.Contains(t, out.String(), "Login Failed")
	assert.NotContains(t, out.String(), "Login Succeeded!")
}

func TestRunRetail(t *testing.T) {
	catalog, err := memory.NewCatalog(domain.Product{ID: "latte", Name: "Latte", Price: 450})
	require.NoError(t, err)
	term, out := newTerminal("9\n1\nc\nc\nc\n")

	err = RunRetail(context.Background(), term, catalog)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "== Menu ==")
	assert.Contains(t, got, `Unknown choice "9"`)
	assert.Contains(t, got, "Added Latte")
	assert.Contains(t, got, "1 item, $4.50")
	assert.Contains(t, got, "== Review Order ==")
	assert.Contains(t, got, "Thank You!")
	assert.Contains(t, got, ">>> Dismissed.")
}

func TestRunRetail_Quit(t *testing.T) {
	catalog, err := memory.NewCatalog(memory.DefaultProducts()...)
	require.NoError(t, err)
	term, _ := newTerminal("q\n")

	assert.NoError(t, RunRetail(context.Background(), term, catalog))
}

func TestRunRetail_EmptyCatalog(t *testing.T) {
	catalog, err := memory.NewCatalog()
	require.NoError(t, err)
	term, out := newTerminal("q\n")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, RunRetail(ctx, term, catalog))
	assert.Contains(t, out.String(), "== Menu ==")
	assert.Contains(t, out.String(), "Cart is empty")
}

type offlineCatalog struct{}

func (offlineCatalog) Products(context.Context) ([]domain.Product, error) {
	return nil, errors.New("offline")
}

func (offlineCatalog) Product(context.Context, string) (domain.Product, error) {
	return domain.Product{}, domain.ErrProductNotFound
}

func TestRunRetail_CatalogUnavailable(t *testing.T) {
	term, out := newTerminal("")

	err := RunRetail(context.Background(), term, offlineCatalog{})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Contains(t, out.String(), "offline")
}

func TestRetailView_Pick(t *testing.T) {
	view := retailView{
		products: []screen.Action[retail.Intent]{
			screen.IndexedAction[retail.Intent]("Latte", retail.Add{ProductID: "latte"}, 0),
		},
		lines: []screen.Action[retail.Intent]{
			screen.IndexedAction[retail.Intent]("1 × Latte", retail.Remove{ProductID: "latte"}, 0),
		},
		checkout: screen.EnabledAction[retail.Intent]("Review Order", retail.Review{}, true),
		back:     screen.EnabledAction[retail.Intent]("Back", retail.Back{}, false),
	}

	tests := []struct {
		cmd  string
		want retail.Intent
		ok   bool
	}{
		{cmd: "1", want: retail.Add{ProductID: "latte"}, ok: true},
		{cmd: "-1", want: retail.Remove{ProductID: "latte"}, ok: true},
		{cmd: "c", want: retail.Review{}, ok: true},
		{cmd: "b"},
		{cmd: "2"},
		{cmd: "-x"},
		{cmd: ""},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			got, ok := view.pick(tt.cmd)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(nil))
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.NoError(t, HandleExecutionError(io.EOF))
	assert.NoError(t, HandleExecutionError(errInterrupted))
	assert.Error(t, HandleExecutionError(errors.New("boom")))
}

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("hi"), cancel)

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(buf[:n]))

	close(cancel)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, errInterrupted)
}

func TestTerminal_ReadSecretFallsBackToLines(t *testing.T) {
	term, out := newTerminal("  hunter22  \n")

	got, err := term.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter22", got)
	assert.Equal(t, "Password: ", out.String())
}

func TestTerminal_ReadLineStripsControlCharacters(t *testing.T) {
	term, _ := newTerminal("po\x1bstman\n")

	got, err := term.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "postman", got)
}
