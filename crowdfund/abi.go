package crowdfund

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// RAISE3_ABI holds the read surface of the Raise3 contract only.
const RAISE3_ABI string = `[
{"type":"function","name":"campaignCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"campaigns","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[{"name":"metaURL","type":"string"},{"name":"goalAmount","type":"uint256"},{"name":"totalRaised","type":"uint256"},{"name":"founder","type":"address"},{"name":"tokenAddress","type":"address"},{"name":"milestoneCount","type":"uint256"},{"name":"status","type":"uint8"}]},
{"type":"function","name":"getMilestoneCount","stateMutability":"view","inputs":[{"name":"campaignId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"getMilestone","stateMutability":"view","inputs":[{"name":"campaignId","type":"uint256"},{"name":"milestoneId","type":"uint256"}],"outputs":[{"name":"url","type":"string"},{"name":"proof","type":"string"},{"name":"isApproved","type":"bool"},{"name":"amount","type":"uint256"},{"name":"completed","type":"bool"}]},
{"type":"function","name":"hasRole","stateMutability":"view","inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"getInvestorProjects","stateMutability":"view","inputs":[{"name":"investor","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
{"type":"function","name":"getInvestment","stateMutability":"view","inputs":[{"name":"campaignId","type":"uint256"},{"name":"investor","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"FOUNDER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"INVESTOR_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"MANAGER_ROLE","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"fundCampaign","stateMutability":"nonpayable","inputs":[{"name":"campaignId","type":"uint256"},{"name":"amount","type":"uint256"}],"outputs":[]}
]`

func GetRaise3ABI() *abi.ABI {
	result, err := abi.JSON(strings.NewReader(RAISE3_ABI))
	if err != nil {
		panic(err)
	}
	return &result
}
