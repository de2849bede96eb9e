package styxproto_test

import (
	"fmt"
	"log"
	"net"

	"github.com/ninelib/styxl/styxproto"
)

func ExamplePutQid() {
	buf := make([]byte, styxproto.QidLen)
	qid := styxproto.PutQid(buf, styxproto.QTFILE, 369, 0x84961)
	fmt.Println(qid)

	// Output: (00 369 84961)
}

func ExampleDecoder() {
	l, err := net.Listen("tcp", ":564")
	if err != nil {
		log.Fatal(err)
	}
	rwc, err := l.Accept()
	if err != nil {
		log.Fatal(err)
	}
	defer rwc.Close()

	enc := styxproto.NewEncoder(rwc)
	d := styxproto.NewDecoder(rwc)
	for d.Next() {
		switch m := d.Msg().(type) {
		case styxproto.Tversion:
			log.Printf("client wants version %s", m.Version())
			enc.Rversion(8192, "9P2000.L")
		case styxproto.Tread:
			enc.Rread(m.Tag(), []byte("data data data data"))
		case styxproto.Twrite:
			log.Printf("receiving %d bytes from client", m.Count())
		}
		enc.Flush()
	}
}
