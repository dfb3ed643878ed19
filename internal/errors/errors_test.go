package errors_test

import (
	stderrors "errors"
	"testing"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := cmberr.NotFoundf("player %s not found", "p1").WithMeta("player_id", "p1")

	wrapped := cmberr.Wrap(base, "failed to start engagement")

	assert.Equal(t, cmberr.CodeNotFound, wrapped.Code)
	assert.True(t, cmberr.IsNotFound(wrapped))
	assert.Equal(t, "p1", cmberr.GetMeta(wrapped)["player_id"])
	assert.Equal(t, "failed to start engagement: player p1 not found", wrapped.Error())
}

func TestWrap_ForeignErrorIsUnknown(t *testing.T) {
	wrapped := cmberr.Wrapf(stderrors.New("boom"), "saving %s", "p1")

	assert.Equal(t, cmberr.CodeUnknown, cmberr.GetCode(wrapped))
	assert.ErrorIs(t, wrapped, wrapped.Cause)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, cmberr.Wrap(nil, "nothing"))
	assert.Nil(t, cmberr.WrapWithCode(nil, cmberr.CodeInternal, "nothing"))
}

func TestWrapWithCode(t *testing.T) {
	err := cmberr.WrapWithCode(stderrors.New("dial tcp: refused"), cmberr.CodeInternal, "failed to save outcome")

	assert.True(t, cmberr.IsInternal(err))
	assert.False(t, cmberr.IsAborted(err))
	assert.Equal(t, cmberr.CodeUnknown, cmberr.GetCode(stderrors.New("plain")))
}
