package spork

// ID identifies a spork. IDs are never reused: an old node must not mistake a
// new spork for a retired one.
type ID int32

// Spork IDs. 10003, 10005, 10010 and 10011 are retired.
const (
	SwiftTX                      ID = 10001
	SwiftTXBlockFiltering        ID = 10002
	MaxValue                     ID = 10004
	MasternodeScanning           ID = 10006
	MasternodePaymentEnforcement ID = 10007
	MasternodeBudgetEnforcement  ID = 10008
	MasternodePayUpdatedNodes    ID = 10009
	EnableSuperblocks            ID = 10012
	NewProtocolEnforcement       ID = 10013
	NewProtocolEnforcement2      ID = 10014
	ZerocoinMaintenanceMode      ID = 10015
	RequiredMNCollateral         ID = 10016
	Collateral1000               ID = 10017
	Collateral1500               ID = 10018
	Collateral2000               ID = 10019
	Collateral2500               ID = 10020
	Collateral3000               ID = 10021
	Collateral3500               ID = 10022
	Collateral4000               ID = 10023
	Collateral4500               ID = 10024
	Collateral5500               ID = 10025
	Collateral6500               ID = 10026
	Collateral7500               ID = 10027
	Collateral8500               ID = 10028
	Collateral9500               ID = 10029
	Collateral10000              ID = 10030
	Collateral20000              ID = 10031
)

const (
	// Off is an activation time far in the future (2099-01-01).
	Off int64 = 4070908800
	// On is used by the collateral sporks, whose values are compared to block
	// heights rather than times.
	On int64 = 99999999
)

// DefaultParams is the parameter table of the network.
var DefaultParams = []Param{
	{SwiftTX, "SPORK_2_SWIFTTX", 978307200},                                   // 2001-01-01
	{SwiftTXBlockFiltering, "SPORK_3_SWIFTTX_BLOCK_FILTERING", 1424217600},    // 2015-02-18
	{MaxValue, "SPORK_5_MAX_VALUE", 1000},                                     // 1000 FNS
	{MasternodeScanning, "SPORK_7_MASTERNODE_SCANNING", 978307200},            // 2001-01-01
	{MasternodePaymentEnforcement, "SPORK_8_MASTERNODE_PAYMENT_ENFORCEMENT", 1548846000},
	{MasternodeBudgetEnforcement, "SPORK_9_MASTERNODE_BUDGET_ENFORCEMENT", 1548846000},
	{MasternodePayUpdatedNodes, "SPORK_10_MASTERNODE_PAY_UPDATED_NODES", Off},
	{EnableSuperblocks, "SPORK_13_ENABLE_SUPERBLOCKS", Off},
	{NewProtocolEnforcement, "SPORK_14_NEW_PROTOCOL_ENFORCEMENT", Off},
	{NewProtocolEnforcement2, "SPORK_15_NEW_PROTOCOL_ENFORCEMENT_2", Off},
	{ZerocoinMaintenanceMode, "SPORK_16_ZEROCOIN_MAINTENANCE_MODE", Off},
	{RequiredMNCollateral, "SPORK_17_REQUIRED_MN_COLLATERAL", 1000},
	{Collateral1000, "SPORK_18_COLLATERAL_1000", On},
	{Collateral1500, "SPORK_19_COLLATERAL_1500", On},
	{Collateral2000, "SPORK_20_COLLATERAL_2000", On},
	{Collateral2500, "SPORK_21_COLLATERAL_2500", On},
	{Collateral3000, "SPORK_22_COLLATERAL_3000", On},
	{Collateral3500, "SPORK_23_COLLATERAL_3500", On},
	{Collateral4000, "SPORK_24_COLLATERAL_4000", On},
	{Collateral4500, "SPORK_25_COLLATERAL_4500", On},
	{Collateral5500, "SPORK_26_COLLATERAL_5500", On},
	{Collateral6500, "SPORK_27_COLLATERAL_6500", On},
	{Collateral7500, "SPORK_28_COLLATERAL_7500", On},
	{Collateral8500, "SPORK_29_COLLATERAL_8500", On},
	{Collateral9500, "SPORK_30_COLLATERAL_9500", On},
	{Collateral10000, "SPORK_31_COLLATERAL_10000", On},
	{Collateral20000, "SPORK_32_COLLATERAL_20000", On},
}
