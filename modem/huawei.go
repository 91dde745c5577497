package modem

import (
	"time"

	"i4.energy/across/modemmgr/at"
)

// Huawei USB identifiers, for display only.
const (
	HuaweiVendorID   = 0x12d1
	MS2131ProductID  = 0x1506
	MS2372hProductID = 0x1506
	E3372ProductID   = 0x155e
)

// Registration states reported in the stat field of RegistrationInfo.
const (
	StatNotRegistered     = "0"
	StatRegisteredHome    = "1"
	StatSearching         = "2"
	StatDenied            = "3"
	StatUnknown           = "4"
	StatRegisteredRoaming = "5"
)

// Roaming settings reported in AccessTechnology.Roam.
const (
	RoamNo         = "0"
	RoamYes        = "1"
	RoamNotChanged = "2"
)

// Acquisition orders for AT^SYSCFGEX models.
const (
	ActAuto       = "00"
	ActGSM        = "01"
	ActUMTS       = "02"
	ActLTE        = "03"
	ActNotChanged = "99"
)

// Acquisition orders and modes for AT^SYSCFG models (MS2131).
const (
	SyscfgActAuto       = "0"
	SyscfgActGSM        = "1"
	SyscfgActUMTS       = "2"
	SyscfgActNotChanged = "3"

	SyscfgModeAuto       = "2"
	SyscfgModeGSM        = "13"
	SyscfgModeWCDMA      = "14"
	SyscfgModeNotChanged = "16"
)

// Huawei refines Generic with the HUAWEI extended command set: AT+CGREG?
// reports LAC and cell id, AT^ICCID? reads the SIM serial and AT^SYSCFGEX
// selects 2G/3G/4G. Operator selection needs longer waits on these sticks.
func Huawei() Dialect {
	d := Generic()
	d.VendorID = HuaweiVendorID
	d.Vendor = "Huawei"
	d.Product = "Generic"
	d.RegistrationCommand = at.CmdGprsReg
	d.ICCIDCommand = "AT^ICCID?"
	d.Timings.SetOperator = 10 * time.Second
	d.Timings.GetOperator = 5 * time.Second
	d.AccessTechnology = &AccessTechnologyDialect{
		QueryCommand: "AT^SYSCFGEX?",
		// acqorder, band, roam, srvdomain, lteband
		Layout:  FieldLayout{Count: 5, Acqorder: 0, Roam: 2},
		Values:  []string{ActAuto, ActGSM, ActUMTS, ActLTE},
		Command: syscfgexCommand,
		// switching technology can emit garbage before the final OK
		Success: AnchorLast,
	}
	return d
}

// any band, roaming enabled, CS+PS, any LTE band
func syscfgexCommand(act string) string {
	return `AT^SYSCFGEX="` + act + `",3FFFFFFF,1,2,7FFFFFFFFFFFFFFF,,`
}

// HuaweiMS2131 is a 2G/3G stick that predates AT^SYSCFGEX.
// See HUAWEI MS2131 AT Command Interface Specification, section 9.6.
func HuaweiMS2131() Dialect {
	d := Huawei()
	d.ProductID = MS2131ProductID
	d.Product = "MS2131"
	d.RegistrationCommand = at.CmdNetReg
	d.Timings.SetAccessTechnology = 1 * time.Second
	d.AccessTechnology = &AccessTechnologyDialect{
		QueryCommand: "AT^SYSCFG?",
		// mode, acqorder, band, roam, srvdomain
		Layout:  FieldLayout{Count: 5, Acqorder: 1, Roam: 3},
		Values:  []string{SyscfgActAuto, SyscfgActGSM, SyscfgActUMTS},
		Command: syscfgCommand,
		Success: AnchorFirst,
	}
	return d
}

// mode, acqorder, any band, roaming enabled, CS+PS
func syscfgCommand(act string) string {
	// TODO: check on an MS2131 whether auto should send SyscfgModeAuto; the
	// acquisition order constant is sent as the mode as the firmware was
	// validated that way.
	mode := SyscfgActNotChanged
	switch act {
	case SyscfgActGSM:
		mode = SyscfgModeGSM
	case SyscfgActUMTS:
		mode = SyscfgModeWCDMA
	}
	return "AT^SYSCFG=" + mode + ",0" + act + ",3FFFFFFF,1,2"
}

func HuaweiMS2372h() Dialect {
	d := Huawei()
	d.ProductID = MS2372hProductID
	d.Product = "MS2372h"
	return d
}

// HuaweiE3372 was validated on an E3372H-510. It reports LAC and cell id
// through AT+CREG? rather than AT+CGREG?, and keeps echo on after a reset
// unless told otherwise.
func HuaweiE3372() Dialect {
	d := Huawei()
	d.ProductID = E3372ProductID
	d.Product = "E3372"
	d.RegistrationCommand = at.CmdNetReg
	d.PeriodicMessagesCommand = "AT^CURC=0"
	d.EchoOffAttempts = 3
	return d
}
