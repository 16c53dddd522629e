package efuse

import (
	"fmt"
	"os"
	"sync"

	"hw_diag/pkg/toolutil/bit"

	"golang.org/x/sys/unix"
)

// USB-ISS 适配器的串口协议常量(见器件的 I2C 模式文档)
const (
	issCmd        = 0x5A
	issSubVersion = 0x01
	issSubSetMode = 0x02

	// 硬件 I2C 的速率档位
	issModeI2CH100KHz  = 0x60
	issModeI2CH400KHz  = 0x70
	issModeI2CH1000KHz = 0x80

	// 单字节寄存器地址的 I2C 读写命令
	issI2CAd1 = 0x55

	issModuleID = 0x07
)

// USBISS 通过 /dev/ttyACM* 串口驱动 USB-ISS 适配器做 I2C 主机。
// 适配器是请求应答式的，一把锁串行化所有事务即可
type USBISS struct {
	mu   sync.Mutex
	port *os.File
}

// speedMode 把 kHz 速率换成适配器的模式字节，只支持硬件 I2C 档位
func speedMode(speedKHz int) (byte, error) {
	switch speedKHz {
	case 100:
		return issModeI2CH100KHz, nil
	case 400:
		return issModeI2CH400KHz, nil
	case 1000:
		return issModeI2CH1000KHz, nil
	}
	return 0, fmt.Errorf("unsupported i2c speed: %dkHz", speedKHz)
}

// OpenUSBISS 打开串口、切 raw 模式、校验适配器身份并设置 I2C 速率
func OpenUSBISS(dev string, speedKHz int) (*USBISS, error) {
	mode, err := speedMode(speedKHz)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(dev, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev, err)
	}

	if err := setRawMode(f); err != nil {
		f.Close()
		return nil, err
	}

	u := &USBISS{port: f}

	// 先读版本确认对面真的是 USB-ISS
	resp, err := u.transact([]byte{issCmd, issSubVersion}, 3)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("usb-iss version check: %w", err)
	}
	if resp[0] != issModuleID {
		f.Close()
		return nil, fmt.Errorf("unexpected module id 0x%02X on %s", resp[0], dev)
	}

	// 设置 I2C 模式，应答第一个字节 0xFF 表示成功
	resp, err = u.transact([]byte{issCmd, issSubSetMode, mode, 0x00}, 2)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("usb-iss set mode: %w", err)
	}
	if resp[0] != 0xFF {
		f.Close()
		return nil, fmt.Errorf("usb-iss set mode rejected: 0x%02X 0x%02X",
			resp[0], resp[1])
	}

	return u, nil
}

// setRawMode 把 tty 调成 raw:关回显、关规范模式、8N1。
// CDC-ACM 设备不理会波特率，这里不用设
func setRawMode(f *os.File) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}

	rawTermios(t)

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return fmt.Errorf("tcsetattr: %w", err)
	}
	return nil
}

func rawTermios(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	// VMIN=0 时 VTIME 是整次读的绝对超时(0.5s)。VMIN>0 的话首字节
	// 会一直阻塞，适配器失联就挂死了。超时返回 0 字节，由 transact
	// 里的 n==0 分支报错
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 5
}

// transact 发一帧请求并读回定长应答
func (u *USBISS) transact(req []byte, respLen int) ([]byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := u.port.Write(req); err != nil {
		return nil, fmt.Errorf("serial write: %w", err)
	}

	resp := make([]byte, respLen)
	got := 0
	for got < respLen {
		n, err := u.port.Read(resp[got:])
		if err != nil {
			return nil, fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			// VTIME 到期还没数据，适配器多半没在响应
			return nil, fmt.Errorf("serial read timeout after %d/%d bytes",
				got, respLen)
		}
		got += n
	}
	return resp, nil
}

// ReadWord 读 2 字节寄存器，PMBus 的字是小端
func (u *USBISS) ReadWord(addr, reg byte) (uint16, error) {
	resp, err := u.transact([]byte{issI2CAd1, addr<<1 | 1, reg, 2}, 2)
	if err != nil {
		return 0, err
	}
	return bit.JoinBytesLEUint16(resp[0], resp[1]), nil
}

// WriteWord 写 2 字节寄存器，低位在前
func (u *USBISS) WriteWord(addr, reg byte, val uint16) error {
	hi, lo := bit.SplitUint16ToBytes(val)
	return u.write(addr, reg, []byte{lo, hi})
}

func (u *USBISS) WriteByte(addr, reg, val byte) error {
	return u.write(addr, reg, []byte{val})
}

// SendCommand 发不带数据的命令字节(如 CLEAR_FAULTS)
func (u *USBISS) SendCommand(addr, reg byte) error {
	return u.write(addr, reg, nil)
}

func (u *USBISS) write(addr, reg byte, data []byte) error {
	req := append([]byte{issI2CAd1, addr << 1, reg, byte(len(data))}, data...)
	resp, err := u.transact(req, 1)
	if err != nil {
		return err
	}
	// 应答 0 表示器件 NACK
	if resp[0] == 0 {
		return fmt.Errorf("i2c nack from 0x%02X reg 0x%02X", addr, reg)
	}
	return nil
}

func (u *USBISS) Close() error {
	return u.port.Close()
}
