package nvme

import (
	"path/filepath"
	"testing"

	"hw_diag/pkg/errorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mock 场景要求显式换掉 sysfs 根，防止误清真实的 /sys/class/nvme
func TestLinkCheckCmdMockNeedsSysfsRoot(t *testing.T) {
	cmd := LinkCheckCmd()
	cmd.SetArgs([]string{"--mock-scenario", "simple"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errorutil.CodeInvalidUsage, errorutil.ExitCodeFromError(err))
}

func TestLinkCheckCmdUnknownScenario(t *testing.T) {
	cmd := LinkCheckCmd()
	cmd.SetArgs([]string{
		"--mock-scenario", "bogus",
		"--sysfs-root", filepath.Join(t.TempDir(), "sys"),
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errorutil.CodeInvalidUsage, errorutil.ExitCodeFromError(err))
}

// 降级场景从子命令一路冒出 CodeCmdFailed，入口据此决定进程退出码
func TestLinkCheckCmdDowngradedExitCode(t *testing.T) {
	cmd := LinkCheckCmd()
	cmd.SetArgs([]string{
		"--mock-scenario", "downgraded",
		"--sysfs-root", filepath.Join(t.TempDir(), "sys"),
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errorutil.CodeCmdFailed, errorutil.ExitCodeFromError(err))
}
