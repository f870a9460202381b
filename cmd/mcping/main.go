// Command mcping asks a server for its status and measures the ping round trip.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/server"
)

func main() {
	addr := flag.String("addr", "localhost:25565", "server address (host:port)")
	proto := flag.Int("proto", packet.ProtocolVersion, "protocol version")
	timeout := flag.Duration("timeout", 5*time.Second, "dial and read timeout")
	raw := flag.Bool("raw", false, "print the raw status JSON")

	flag.Parse()

	if err := ping(*addr, int32(*proto), *timeout, *raw); err != nil {
		fmt.Fprintln(os.Stderr, "mcping:", err)
		os.Exit(1)
	}
}

func ping(addr string, proto int32, timeout time.Duration, raw bool) error {
	hostname, portstr, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	port, err := strconv.ParseUint(portstr, 10, 16)
	if err != nil {
		return err
	}

	fmt.Printf("Dialing %s for status retrieval...\n", addr)

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	t := mcserver.NewTransport(conn, conn, mcserver.TransportConfig{
		MaxPacketLen: 32768,
	})

	var b bytes.Buffer
	packet.WriteVarInt(&b, proto)
	packet.WriteString(&b, hostname)
	packet.WriteUnsignedShort(&b, uint16(port))
	packet.WriteVarInt(&b, packet.IntentStatus)
	if err := t.Send(0x00, b.Bytes()); err != nil {
		return err
	}
	if err := t.Send(0x00, nil); err != nil {
		return err
	}

	f, err := t.Recv()
	if err != nil {
		return err
	}
	if f.ID != 0x00 {
		return fmt.Errorf("unexpected response 0x%02x", f.ID)
	}
	r := packet.NewReader(f.Payload)
	body, err := packet.ReadString(&r)
	if err != nil {
		return err
	}

	if raw {
		fmt.Println(body)
	} else {
		var resp server.ResponseJSON
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			return fmt.Errorf("malformed status: %w", err)
		}
		fmt.Printf("%s (protocol %d)\n", resp.Version.Name, resp.Version.Protocol)
		fmt.Printf("%s\n", resp.Description.Text)
		fmt.Printf("%d/%d players\n", resp.Players.Online, resp.Players.Max)
		for _, p := range resp.Players.Sample {
			fmt.Printf("  %s %s\n", p.Name, p.ID)
		}
	}

	sent := time.Now()
	b.Reset()
	packet.WriteLong(&b, sent.UnixMilli())
	if err := t.Send(0x01, b.Bytes()); err != nil {
		return err
	}
	if f, err = t.Recv(); err != nil {
		return err
	}
	if f.ID != 0x01 {
		return fmt.Errorf("unexpected response 0x%02x", f.ID)
	}
	fmt.Printf("ping %s\n", time.Since(sent).Round(time.Microsecond))
	return nil
}
