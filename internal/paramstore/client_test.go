package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
	lastIn *ssm.GetParameterInput
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastIn = in
	return f.getOut, f.getErr
}

func strPtr(s string) *string { return &s }

func withValue(v *string) *fakeAPI {
	return &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("/coin-getter/discord-webhook"), Value: v, Type: types.ParameterTypeSecureString,
	}}}
}

func TestGet_DecryptsAndTrims(t *testing.T) {
	api := withValue(strPtr("  https://discord.com/api/webhooks/1/abc\n"))
	client, err := New(api)
	require.NoError(t, err)

	v, err := client.Get(context.Background(), " /coin-getter/discord-webhook ")
	require.NoError(t, err)
	require.Equal(t, "https://discord.com/api/webhooks/1/abc", v)
	require.Equal(t, "/coin-getter/discord-webhook", *api.lastIn.Name)
	require.True(t, *api.lastIn.WithDecryption)
}

func TestGet_MissingValue(t *testing.T) {
	client, err := New(withValue(nil))
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "p")
	require.ErrorContains(t, err, "missing value")
}

func TestGet_BlankValue(t *testing.T) {
	client, err := New(withValue(strPtr("   ")))
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "p")
	require.ErrorContains(t, err, "is empty")
}

func TestGet_APIError(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("ParameterNotFound")}
	client, err := New(api)
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "p")
	require.ErrorIs(t, err, api.getErr)
}

func TestGet_ClientNotInitialized(t *testing.T) {
	_, err := (&Client{}).Get(context.Background(), "p")
	require.ErrorContains(t, err, "not initialized")
}

func TestGet_EmptyName(t *testing.T) {
	client, err := New(&fakeAPI{})
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "  ")
	require.ErrorContains(t, err, "required")
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "must not be nil")
}
