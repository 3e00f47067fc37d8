package cmd

import (
	"fmt"
)

type CompletionCmd struct {
	Shell string `arg:"" help:"Shell type: bash, zsh, or fish"`
}

func (c *CompletionCmd) Run() error {
	switch c.Shell {
	case "bash":
		return c.generateBash()
	case "zsh":
		return c.generateZsh()
	case "fish":
		return c.generateFish()
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", c.Shell)
	}
}

func (c *CompletionCmd) generateBash() error {
	script := `# bash completion for mesh2step

_mesh2step_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main commands
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        opts="convert inspect version completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Options for convert command
    if [[ ${COMP_WORDS[1]} == "convert" ]]; then
        case "${prev}" in
            --tolerance)
                return 0
                ;;
            --format)
                COMPREPLY=( $(compgen -W "auto stl 3mf" -- ${cur}) )
                return 0
                ;;
            --config|--log-file)
                COMPREPLY=( $(compgen -f -- ${cur}) )
                return 0
                ;;
            *)
                if [[ ${cur} == -* ]]; then
                    opts="--tolerance --no-repair --format --config --log-file -v --verbose -h --help"
                    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
                elif [[ ${COMP_CWORD} -eq 3 ]]; then
                    COMPREPLY=( $(compgen -f -X '!*.step' -- ${cur}) )
                else
                    COMPREPLY=( $(compgen -f -X '!*.@(stl|3mf)' -- ${cur}) )
                fi
                return 0
                ;;
        esac
    fi

    # Options for inspect command
    if [[ ${COMP_WORDS[1]} == "inspect" ]]; then
        if [[ ${cur} == -* ]]; then
            opts="-v --verbose -h --help"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -f -X '!*.@(stl|3mf)' -- ${cur}) )
        fi
        return 0
    fi

    # Options for completion command
    if [[ ${COMP_WORDS[1]} == "completion" ]]; then
        if [[ ${COMP_CWORD} -eq 2 ]]; then
            opts="bash zsh fish"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        fi
        return 0
    fi
}

complete -F _mesh2step_completions mesh2step
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateZsh() error {
	script := `#compdef mesh2step

_mesh2step() {
    local -a commands
    commands=(
        'convert:Convert a mesh file to a STEP solid'
        'inspect:Inspect a mesh file and print its diagnostics'
        'version:Show version information'
        'completion:Generate shell completion scripts'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case ${words[2]} in
        convert)
            _arguments \
                '--tolerance[Reconstruction tolerance]:tolerance:' \
                '--no-repair[Skip the mesh repair pipeline]' \
                '--format[Input format]:format:(auto stl 3mf)' \
                '--config[YAML configuration file]:file:_files' \
                '--log-file[Write logs to this file]:file:_files' \
                '(-v --verbose)'{-v,--verbose}'[Enable debug logging]' \
                '2:input:_files -g "*.(stl|3mf)"' \
                '3:output:_files -g "*.step"'
            ;;
        inspect)
            _arguments \
                '(-v --verbose)'{-v,--verbose}'[Enable debug logging]' \
                '*:file:_files -g "*.(stl|3mf)"'
            ;;
        completion)
            _arguments '2:shell:(bash zsh fish)'
            ;;
    esac
}

_mesh2step
`
	fmt.Print(script)
	return nil
}

func (c *CompletionCmd) generateFish() error {
	script := `# fish completion for mesh2step

complete -c mesh2step -f

complete -c mesh2step -n '__fish_use_subcommand' -a convert -d 'Convert a mesh file to a STEP solid'
complete -c mesh2step -n '__fish_use_subcommand' -a inspect -d 'Inspect a mesh file and print its diagnostics'
complete -c mesh2step -n '__fish_use_subcommand' -a version -d 'Show version information'
complete -c mesh2step -n '__fish_use_subcommand' -a completion -d 'Generate shell completion scripts'

complete -c mesh2step -n '__fish_seen_subcommand_from convert' -l tolerance -d 'Reconstruction tolerance' -r
complete -c mesh2step -n '__fish_seen_subcommand_from convert' -l no-repair -d 'Skip the mesh repair pipeline'
complete -c mesh2step -n '__fish_seen_subcommand_from convert' -l format -d 'Input format' -xa 'auto stl 3mf'
complete -c mesh2step -n '__fish_seen_subcommand_from convert' -l config -d 'YAML configuration file' -r
complete -c mesh2step -n '__fish_seen_subcommand_from convert' -l log-file -d 'Write logs to this file' -r
complete -c mesh2step -n '__fish_seen_subcommand_from convert' -s v -l verbose -d 'Enable debug logging'
complete -c mesh2step -n '__fish_seen_subcommand_from convert' -k -xa '(__fish_complete_suffix .stl .3mf .step)'

complete -c mesh2step -n '__fish_seen_subcommand_from inspect' -s v -l verbose -d 'Enable debug logging'
complete -c mesh2step -n '__fish_seen_subcommand_from inspect' -k -xa '(__fish_complete_suffix .stl .3mf)'

complete -c mesh2step -n '__fish_seen_subcommand_from completion' -xa 'bash zsh fish'
`
	fmt.Print(script)
	return nil
}
