package at

const (
	// Terminal Control
	CRLF = "\r\n"

	// Response Codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"
	NotSupport = "COMMAND NOT SUPPORT"

	// Huawei periodic status reports
	UrcRSSI  = "^RSSI:"
	UrcBoot  = "^BOOT:"
	UrcMode  = "^MODE:"
	UrcSrvSt = "^SRVST:"
	UrcSimSt = "^SIMST:"
	UrcHCSQ  = "^HCSQ:"
)

// ETSI TS 127 007 commands shared by every dialect.
const (
	CmdEchoOn        = "ATE1"
	CmdEchoOff       = "ATE0"
	CmdReset         = "ATZ"
	CmdManufacturer  = "AT+GMI"
	CmdModel         = "AT+GMM"
	CmdRevision      = "AT+GMR"
	CmdSerialNumber  = "AT+GSN"
	CmdIMSI          = "AT+CIMI"
	CmdSignal        = "AT+CSQ"
	CmdOperator      = "AT+COPS?"
	CmdSetOperator   = `AT+COPS=1,2,"%s"`
	CmdRegister      = "AT+CREG=%d"
	CmdNetReg        = "AT+CREG?"
	CmdGprsReg       = "AT+CGREG?"
	CmdAttach        = "AT+CGATT=1"
	CmdDetach        = "AT+CGATT=0"
	CmdAttachStatus  = "AT+CGATT?"
	CmdActivate      = "AT+CGACT=1,1"
	CmdPDPContexts   = "AT+CGDCONT?"
	CmdSetPDPContext = `AT+CGDCONT=%d,"IP","%s",""`
)

type ResponseType int

const (
	TypeFinal ResponseType = iota // OK, ERROR
	TypeURC                       // Asynchronous notifications
	TypeData                      // Intermediate command output (+CSQ: ...)
)
