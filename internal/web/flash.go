package web

import "strings"

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case "player_added":
		return "선수를 등록했습니다."
	case "player_removed":
		return "선수를 명단에서 삭제했습니다."
	case "match_added":
		return "경기 결과를 저장했습니다."
	case "match_deleted":
		return "경기 결과를 삭제했습니다."
	}
	return ""
}

func flashError(code string) string {
	switch strings.TrimSpace(code) {
	case "name_required":
		return "선수 이름을 입력해 주세요."
	case "player_exists":
		return "이미 등록된 선수입니다."
	case "player_missing":
		return "두 선수를 모두 선택해 주세요."
	case "unknown_player":
		return "명단에 없는 선수입니다."
	case "same_player":
		return "서로 다른 두 선수를 선택해 주세요."
	case "not_found":
		return "대상을 찾을 수 없습니다."
	}
	return ""
}
