//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl requests from linux/joystick.h.
const (
	jsiocgAxes    = 0x80016a11
	jsiocgButtons = 0x80016a12
	jsiocgName    = 0x80006a13 // | len<<16
)

// OpenJoydev opens a joystick device such as /dev/input/js0.
func OpenJoydev(path string, m Mapping, logger *slog.Logger) (*Joydev, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	j := newJoydev(path, m)
	j.fd = fd

	axes, _ := unix.IoctlGetInt(fd, jsiocgAxes)
	buttons, _ := unix.IoctlGetInt(fd, jsiocgButtons)
	axes, buttons = axes&0xff, buttons&0xff
	logger.Info("joystick opened", "device", path, "name", deviceName(fd), "axes", axes, "buttons", buttons)

	if max(m.AxisX, m.AxisY) >= axes {
		unix.Close(fd)
		return nil, fmt.Errorf("%s has %d axes, mapping needs axis %d", path, axes, max(m.AxisX, m.AxisY))
	}
	if max(m.Fire, m.Autofire, m.Aux) >= buttons {
		logger.Warn("button mapping exceeds device buttons", "buttons", buttons,
			"fire", m.Fire, "autofire", m.Autofire, "aux", m.Aux)
	}
	return j, nil
}

func deviceName(fd int) string {
	var buf [128]byte
	req := uintptr(jsiocgName | len(buf)<<16)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "unknown"
	}
	return unix.ByteSliceToString(buf[:])
}

// Run reads events until ctx is done or the device fails. epoll wakes at
// least every 100ms so cancellation is noticed.
func (j *Joydev) Run(ctx context.Context) error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(j.fd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, j.fd, &ev); err != nil {
		return fmt.Errorf("epoll_ctl_add %s: %w", j.name, err)
	}

	events := make([]unix.EpollEvent, 4)
	buf := make([]byte, 64*jsEventSize)
	for ctx.Err() == nil {
		n, err := unix.EpollWait(epfd, events, 100)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}
		for i := 0; i < n; i++ {
			if events[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				return fmt.Errorf("%s: device error or hangup", j.name)
			}
			if err := j.drain(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// drain reads until the device has nothing more to give.
func (j *Joydev) drain(buf []byte) error {
	for {
		n, err := unix.Read(j.fd, buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
			return nil
		case err != nil:
			return fmt.Errorf("read %s: %w", j.name, err)
		case n == 0:
			return fmt.Errorf("read %s: %w", j.name, io.EOF)
		}
		if _, err := j.feed(buf[:n]); err != nil {
			return err
		}
	}
}

// Close releases the device.
func (j *Joydev) Close() error {
	if j.fd < 0 {
		return nil
	}
	err := unix.Close(j.fd)
	j.fd = -1
	return err
}
