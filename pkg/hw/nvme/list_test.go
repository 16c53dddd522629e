package nvme

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nvmeCliRunner struct{ out string }

func (r nvmeCliRunner) Run(name string, args ...string) (string, error) {
	if name == "nvme" {
		return r.out, nil
	}
	return "", assert.AnError
}

const nvmeListSample = `{
  "Devices" : [
    {
      "DevicePath" : "/dev/nvme0n1",
      "Firmware" : "EIFM31.0",
      "ModelNumber" : "PS5021-E21T",
      "SerialNumber" : "21062800012345",
      "PhysicalSize" : 1024209543168
    },
    {
      "DevicePath" : "/dev/nvme1n1",
      "Firmware" : "EIFM31.0",
      "ModelNumber" : "PS5021-E21T",
      "SerialNumber" : "21062800054321"
    }
  ]
}`

func TestListDevices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listDevices(nvmeCliRunner{out: nvmeListSample}, &buf))

	out := buf.String()
	assert.Contains(t, out, "/dev/nvme0n1")
	assert.Contains(t, out, "PS5021-E21T")
	assert.Contains(t, out, "954 GiB")
	// 没报容量的盘打占位符
	assert.Contains(t, out, "/dev/nvme1n1")
}

func TestListDevicesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listDevices(nvmeCliRunner{out: `{"Devices":[]}`}, &buf))
	assert.Contains(t, buf.String(), "No NVMe devices reported")
}

func TestListDevicesNoNvmeCli(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, listDevices(failingRunner{}, &buf))
	assert.Contains(t, buf.String(), "nvme-cli not available")
}
