package api

import (
	"github.com/hereditas-net/hereditas/core/vaultledger"
	"github.com/hereditas-net/hereditas/ledger"
)

const (
	PrefixAPIV1 = "/api/v1"

	PathGetLedgerInfo     = PrefixAPIV1 + "/ledger_info"
	PathGetStatus         = PrefixAPIV1 + "/get_status"
	PathGetBeneficiary    = PrefixAPIV1 + "/get_beneficiary"
	PathHasVault          = PrefixAPIV1 + "/has_vault"
	PathGetVaultCount     = PrefixAPIV1 + "/get_vault_count"
	PathGetVaultIDByIndex = PrefixAPIV1 + "/get_vault_id_by_index"
	PathGetFeeAmount      = PrefixAPIV1 + "/get_fee_amount"
	PathGetJournal        = PrefixAPIV1 + "/journal"

	PathCreateVault    = PrefixAPIV1 + "/create_vault"
	PathCheckIn        = PrefixAPIV1 + "/check_in"
	PathDeposit        = PrefixAPIV1 + "/deposit"
	PathSetBeneficiary = PrefixAPIV1 + "/set_beneficiary"
	PathTriggerTier1   = PrefixAPIV1 + "/trigger_tier1"
	PathTriggerTier2   = PrefixAPIV1 + "/trigger_tier2"

	PathSyncHeight = PrefixAPIV1 + "/sync_height"
)

type (
	Error struct {
		// empty string when no error
		Error string `json:"error,omitempty"`
	}

	LedgerInfo struct {
		Error
		Version         string `json:"version"`
		Description     string `json:"description"`
		Variant         string `json:"variant"`
		CurrentHeight   uint64 `json:"current_height"`
		TotalVaultCount uint64 `json:"total_vault_count"`
		FeeAmount       string `json:"fee_amount"`
	}

	// Status is returned by 'get_status'
	Status struct {
		Error
		Status               byte   `json:"status"`
		StatusName           string `json:"status_name"`
		LastHeartbeatBlock   uint64 `json:"last_heartbeat_block"`
		CurrentBlock         uint64 `json:"current_block"`
		TotalDeposited       string `json:"total_deposited"`
		Tier1Amount          string `json:"tier1_amount"`
		Tier2Amount          string `json:"tier2_amount"`
		Tier1BlocksRemaining uint64 `json:"tier1_blocks_remaining"`
		Tier2BlocksRemaining uint64 `json:"tier2_blocks_remaining"`
		Owner                string `json:"owner"`
	}

	Beneficiary struct {
		Error
		Beneficiary string `json:"beneficiary,omitempty"`
	}

	HasVault struct {
		Error
		Exists bool `json:"exists"`
	}

	VaultCount struct {
		Error
		Count uint64 `json:"count"`
	}

	VaultIDByIndex struct {
		Error
		VaultID string `json:"vault_id,omitempty"`
	}

	FeeAmount struct {
		Error
		FeeAmount string `json:"fee_amount"`
	}

	CreateVault struct {
		Error
		// VaultID assigned id, hex form (multi-vault variant only)
		VaultID string `json:"vault_id,omitempty"`
		Success bool   `json:"success"`
	}

	SuccessResponse struct {
		Error
		Success bool `json:"success"`
	}

	Trigger struct {
		Error
		ReleasedAmount string `json:"released_amount,omitempty"`
	}

	SyncHeight struct {
		Error
		CurrentHeight uint64 `json:"current_height"`
	}

	ReleaseEventJSONAble struct {
		VaultID     string `json:"vault_id,omitempty"`
		Owner       string `json:"owner"`
		Beneficiary string `json:"beneficiary"`
		Tier        byte   `json:"tier"`
		Amount      string `json:"amount"`
		Height      uint64 `json:"height"`
		TriggeredBy string `json:"triggered_by"`
	}

	Journal struct {
		Error
		TotalRecords uint64                 `json:"total_records"`
		Events       []ReleaseEventJSONAble `json:"events,omitempty"`
	}
)

func StatusFromBundle(s *ledger.StatusBundle) *Status {
	return &Status{
		Status:               byte(s.Status),
		StatusName:           s.Status.String(),
		LastHeartbeatBlock:   uint64(s.LastHeartbeat),
		CurrentBlock:         uint64(s.CurrentHeight),
		TotalDeposited:       s.TotalDeposited.DecimalString(),
		Tier1Amount:          s.Tier1Amount.DecimalString(),
		Tier2Amount:          s.Tier2Amount.DecimalString(),
		Tier1BlocksRemaining: uint64(s.Tier1Remaining),
		Tier2BlocksRemaining: uint64(s.Tier2Remaining),
		Owner:                s.Owner.String(),
	}
}

func JSONAbleFromReleaseEvent(ev vaultledger.ReleaseEvent) ReleaseEventJSONAble {
	ret := ReleaseEventJSONAble{
		Owner:       ev.Owner.String(),
		Beneficiary: ev.Beneficiary.String(),
		Tier:        ev.Tier,
		Amount:      ev.Amount.DecimalString(),
		Height:      uint64(ev.Height),
		TriggeredBy: ev.TriggeredBy.String(),
	}
	if !ev.VaultID.IsNil() {
		ret.VaultID = ev.VaultID.StringHex()
	}
	return ret
}
