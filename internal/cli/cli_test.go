package cli

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestProcessCmd_RequiresInputDirectory(t *testing.T) {
	err := execute(ProcessCmd())
	assert.ErrorContains(t, err, "--transcripts or --emails")
}

func TestGenerateCmd_RequiresGapsFlag(t *testing.T) {
	err := execute(GenerateCmd())
	assert.Error(t, err)
}

func TestPublishCmd_RequiresDraftsFlag(t *testing.T) {
	err := execute(PublishCmd())
	assert.Error(t, err)
}

func TestFetchKBCmd_RequiresIntercomToken(t *testing.T) {
	t.Setenv("GAPSCAN_INTERCOM_ACCESS_TOKEN", "")
	err := execute(FetchKBCmd())
	assert.ErrorContains(t, err, "GAPSCAN_INTERCOM_ACCESS_TOKEN")
}

func TestTestIntercomCmd_RequiresIntercomToken(t *testing.T) {
	t.Setenv("GAPSCAN_INTERCOM_ACCESS_TOKEN", "")
	err := execute(TestIntercomCmd())
	assert.ErrorContains(t, err, "GAPSCAN_INTERCOM_ACCESS_TOKEN")
}

func TestCommandWiring(t *testing.T) {
	assert.Equal(t, "process", ProcessCmd().Use)
	assert.Equal(t, "fetch-kb", FetchKBCmd().Use)
	assert.Equal(t, "generate", GenerateCmd().Use)
	assert.Equal(t, "publish", PublishCmd().Use)
	assert.Equal(t, "test-intercom", TestIntercomCmd().Use)
}
